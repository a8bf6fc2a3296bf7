package item

import (
	"time"

	"golang.org/x/xerrors"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/domain"
)

// Item is a single auction lot stored in database.
// CurrentBid and HighestBidder are denormalized from the confirmed bid;
// they are mutated only by the bid usecase and by admin edits.
type Item struct {
	Id            string         `json:"id" bson:"id"`
	AuctionId     *string        `json:"auctionId,omitempty" bson:"auctionId,omitempty"`
	Name          string         `json:"name" bson:"name"`
	Description   string         `json:"description" bson:"description"`
	ImageHash     string         `json:"imageHash" bson:"imageHash"`
	Featured      bool           `json:"featured" bson:"featured"`
	StartingBid   float64        `json:"startingBid" bson:"startingBid"`
	CurrentBid    float64        `json:"currentBid" bson:"currentBid"`
	HighestBidder *domain.UserId `json:"highestBidder,omitempty" bson:"highestBidder,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// Patchable holds admin-editable item fields
type Patchable struct {
	AuctionId   *string    `json:"auctionId" bson:"auctionId"`
	Name        *string    `json:"name" bson:"name"`
	Description *string    `json:"description" bson:"description"`
	ImageHash   *string    `json:"imageHash" bson:"imageHash"`
	Featured    *bool      `json:"featured" bson:"featured"`
	StartingBid *float64   `json:"startingBid" bson:"startingBid"`
	UpdatedAt   *time.Time `json:"-" bson:"updatedAt"`
}

// BidPointer is the denormalized pointer written on a successful bid
type BidPointer struct {
	CurrentBid    float64       `bson:"currentBid"`
	HighestBidder domain.UserId `bson:"highestBidder"`
	UpdatedAt     time.Time     `bson:"updatedAt"`
}

type selectOptions struct {
	AuctionId *string `bson:"auctionId"`
	Featured  *bool   `bson:"featured"`
	Offset    *int    `bson:"-"`
	Limit     *int    `bson:"-"`
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

func WithAuctionId(auctionId string) SelectOptions {
	return func(options *selectOptions) error {
		options.AuctionId = &auctionId
		return nil
	}
}

func WithFeatured(featured bool) SelectOptions {
	return func(options *selectOptions) error {
		options.Featured = &featured
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
	FindAll(c ctx.Ctx, opts ...SelectOptions) ([]*Item, error)
	FindOne(c ctx.Ctx, id string) (*Item, error)
	Create(c ctx.Ctx, value *Item) error
	Patch(c ctx.Ctx, id string, patchable Patchable) error
	// PatchBidPointer conditionally updates the denormalized bid pointer.
	// The update applies only when the stored currentBid still equals
	// prevBid; query.ErrNotFound is returned otherwise.
	PatchBidPointer(c ctx.Ctx, id string, prevBid float64, pointer BidPointer) error
	Delete(c ctx.Ctx, id string) error
	DeleteByAuction(c ctx.Ctx, auctionId string) (int64, error)
}

type Usecase interface {
	List(c ctx.Ctx, opts ...SelectOptions) ([]*Item, error)
	Get(c ctx.Ctx, id string) (*Item, error)
	Create(c ctx.Ctx, value *Item) (*Item, error)
	Update(c ctx.Ctx, id string, patchable Patchable) (*Item, error)
	Delete(c ctx.Ctx, id string) error
}
