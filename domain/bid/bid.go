package bid

import (
	"time"

	"golang.org/x/xerrors"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/domain"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusOutbid    Status = "outbid"
	StatusWon       Status = "won"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusOutbid, StatusWon:
		return true
	}
	return false
}

// Bid is a user's offer on an item. At most one bid per item carries
// status confirmed; earlier confirmed bids are transitioned to outbid.
type Bid struct {
	Id        string        `json:"id" bson:"id"`
	ItemId    string        `json:"itemId" bson:"itemId"`
	UserId    domain.UserId `json:"userId" bson:"userId"`
	Amount    float64       `json:"amount" bson:"amount"`
	Status    Status        `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

type selectOptions struct {
	ItemId *string        `bson:"itemId"`
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

func WithItemId(itemId string) SelectOptions {
	return func(options *selectOptions) error {
		options.ItemId = &itemId
		return nil
	}
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
	FindAll(c ctx.Ctx, opts ...SelectOptions) ([]*Bid, error)
	FindOne(c ctx.Ctx, id string) (*Bid, error)
	Create(c ctx.Ctx, value *Bid) error
	PatchStatus(c ctx.Ctx, id string, status Status) error
	Delete(c ctx.Ctx, id string) error
	DeleteByItems(c ctx.Ctx, itemIds []string) (int64, error)
}

type Usecase interface {
	// PlaceBid validates amount against the item and its auction,
	// supersedes the previous confirmed bid and commits the new one
	PlaceBid(c ctx.Ctx, itemId string, userId domain.UserId, amount float64) (*Bid, error)
	Get(c ctx.Ctx, id string, caller domain.UserId, isAdmin bool) (*Bid, error)
	// List returns the caller's own bids; admins see every bid and may
	// filter by item
	List(c ctx.Ctx, caller domain.UserId, isAdmin bool, opts ...SelectOptions) ([]*Bid, error)
}
