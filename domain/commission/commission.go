package commission

import (
	"time"

	"golang.org/x/xerrors"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/domain"
)

type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusReviewing  Status = "reviewing"
	StatusAccepted   Status = "accepted"
	StatusDeclined   Status = "declined"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusReviewing, StatusAccepted,
		StatusDeclined, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Commission is a free-form custom work request. Any admin may set any
// status at any time; there is no transition enforcement.
type Commission struct {
	Id        string        `json:"id" bson:"id"`
	UserId    domain.UserId `json:"userId" bson:"userId"`
	Title     string        `json:"title" bson:"title"`
	Details   string        `json:"details" bson:"details"`
	Budget    *float64      `json:"budget,omitempty" bson:"budget,omitempty"`
	Status    Status        `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Patchable holds updatable commission fields
type Patchable struct {
	Title     *string    `json:"title" bson:"title"`
	Details   *string    `json:"details" bson:"details"`
	Budget    *float64   `json:"budget" bson:"budget"`
	Status    *Status    `json:"status" bson:"status"`
	UpdatedAt *time.Time `json:"-" bson:"updatedAt"`
}

type selectOptions struct {
	UserId *domain.UserId `bson:"userId"`
	Status *Status        `bson:"status"`
	Offset *int           `bson:"-"`
	Limit  *int           `bson:"-"`
}

type SelectOptions func(*selectOptions) error

func GetSelectOptions(opts ...SelectOptions) (selectOptions, error) {
	res := selectOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithUserId(userId domain.UserId) SelectOptions {
	return func(options *selectOptions) error {
		options.UserId = &userId
		return nil
	}
}

func WithStatus(status Status) SelectOptions {
	return func(options *selectOptions) error {
		options.Status = &status
		return nil
	}
}

func WithPagination(offset, limit int) SelectOptions {
	return func(options *selectOptions) error {
		if offset < 0 || limit < 0 {
			return xerrors.Errorf("invalid pagination offset %d limit %d", offset, limit)
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	FindAll(c ctx.Ctx, opts ...SelectOptions) ([]*Commission, error)
	FindOne(c ctx.Ctx, id string) (*Commission, error)
	Create(c ctx.Ctx, value *Commission) error
	Patch(c ctx.Ctx, id string, patchable Patchable) error
}

type Usecase interface {
	Submit(c ctx.Ctx, value *Commission) (*Commission, error)
	Get(c ctx.Ctx, id string, caller domain.UserId, isAdmin bool) (*Commission, error)
	List(c ctx.Ctx, caller domain.UserId, isAdmin bool, opts ...SelectOptions) ([]*Commission, error)
	Update(c ctx.Ctx, id string, patchable Patchable) (*Commission, error)
}
