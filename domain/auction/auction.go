package auction

import (
	"time"

	"golang.org/x/xerrors"

	"github.com/glazehouse/potteryapi/base/ctx"
)

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusEnded    Status = "ended"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusEnded:
		return true
	}
	return false
}

// Auction is a time-boxed grouping of items with a lifecycle status.
// Transition upcoming -> active -> ended is driven by admin edits (and
// optionally the expiry sweep); bid placement only reads the status.
type Auction struct {
	Id        string    `json:"id" bson:"id"`
	Title     string    `json:"title" bson:"title"`
	Status    Status    `json:"status" bson:"status"`
	StartDate time.Time `json:"startDate" bson:"startDate"`
	EndDate   time.Time `json:"endDate" bson:"endDate"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Patchable holds admin-editable auction fields
type Patchable struct {
	Title     *string    `json:"title" bson:"title"`
	Status    *Status    `json:"status" bson:"status"`
	StartDate *time.Time `json:"startDate" bson:"startDate"`
	EndDate   *time.Time `json:"endDate" bson:"endDate"`
	UpdatedAt *time.Time `json:"-" bson:"updatedAt"`
}

type selectOptions struct {
	Status *Status `bson:"status"`
	Offset *int    `bson:"-"`
	Limit  *int    `bson:"-"`
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
	FindAll(c ctx.Ctx, opts ...SelectOptions) ([]*Auction, error)
	FindOne(c ctx.Ctx, id string) (*Auction, error)
	Create(c ctx.Ctx, value *Auction) error
	Patch(c ctx.Ctx, id string, patchable Patchable) error
	Delete(c ctx.Ctx, id string) error
	// FindExpired returns active auctions whose end date is before ts
	FindExpired(c ctx.Ctx, ts time.Time) ([]*Auction, error)
}

type Usecase interface {
	List(c ctx.Ctx, opts ...SelectOptions) ([]*Auction, error)
	Get(c ctx.Ctx, id string) (*Auction, error)
	Create(c ctx.Ctx, value *Auction) (*Auction, error)
	Update(c ctx.Ctx, id string, patchable Patchable) (*Auction, error)
	// Delete removes the auction and cascades to its items and their bids
	Delete(c ctx.Ctx, id string) error
	// CloseExpired transitions active auctions past their end date to ended
	CloseExpired(c ctx.Ctx, ts time.Time) (int, error)
}
