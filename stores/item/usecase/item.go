package usecase

import (
	"time"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/money"
	"github.com/glazehouse/potteryapi/base/ptr"
	"github.com/glazehouse/potteryapi/base/uid"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/auction"
	"github.com/glazehouse/potteryapi/domain/bid"
	"github.com/glazehouse/potteryapi/domain/item"
	"github.com/glazehouse/potteryapi/service/query"
)

type itemImpl struct {
	q       query.Mongo
	item    item.Repo
	auction auction.Repo
	bid     bid.Repo
}

func NewItem(q query.Mongo, itemRepo item.Repo, auctionRepo auction.Repo, bidRepo bid.Repo) item.Usecase {
	return &itemImpl{
		q:       q,
		item:    itemRepo,
		auction: auctionRepo,
		bid:     bidRepo,
	}
}

func (im *itemImpl) List(c ctx.Ctx, opts ...item.SelectOptions) ([]*item.Item, error) {
	res, err := im.item.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("item.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *itemImpl) Get(c ctx.Ctx, id string) (*item.Item, error) {
	res, err := im.item.FindOne(c, id)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("id", id).Error("item.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *itemImpl) Create(c ctx.Ctx, value *item.Item) (*item.Item, error) {
	if len(value.Name) == 0 || !money.IsValidAmount(value.StartingBid) {
		return nil, domain.ErrInvalidInput
	}

	if value.AuctionId != nil {
		if _, err := im.auction.FindOne(c, *value.AuctionId); err == query.ErrNotFound {
			return nil, domain.ErrNotFound
		} else if err != nil {
			c.WithField("err", err).Error("auction.FindOne failed")
			return nil, err
		}
	}

	now := time.Now()
	value.Id = uid.New()
	value.CurrentBid = value.StartingBid
	value.HighestBidder = nil
	value.CreatedAt = now
	value.UpdatedAt = now

	if err := im.item.Create(c, value); err != nil {
		c.WithField("err", err).Error("item.Create failed")
		return nil, err
	}
	return value, nil
}

func (im *itemImpl) Update(c ctx.Ctx, id string, patchable item.Patchable) (*item.Item, error) {
	if patchable.StartingBid != nil && !money.IsValidAmount(*patchable.StartingBid) {
		return nil, domain.ErrInvalidInput
	}

	if patchable.StartingBid != nil {
		current, err := im.item.FindOne(c, id)
		if err == query.ErrNotFound {
			return nil, domain.ErrNotFound
		} else if err != nil {
			c.WithField("err", err).WithField("id", id).Error("item.FindOne failed")
			return nil, err
		}
		// currentBid never drops below startingBid
		if *patchable.StartingBid > current.CurrentBid {
			return nil, domain.ErrInvalidInput
		}
	}

	if patchable.AuctionId != nil {
		if _, err := im.auction.FindOne(c, *patchable.AuctionId); err == query.ErrNotFound {
			return nil, domain.ErrNotFound
		} else if err != nil {
			c.WithField("err", err).Error("auction.FindOne failed")
			return nil, err
		}
	}

	patchable.UpdatedAt = ptr.Time(time.Now())

	if err := im.item.Patch(c, id, patchable); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("id", id).Error("item.Patch failed")
		return nil, err
	}

	return im.Get(c, id)
}

// Delete removes the item together with every bid placed on it
func (im *itemImpl) Delete(c ctx.Ctx, id string) error {
	if _, err := im.item.FindOne(c, id); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("id", id).Error("item.FindOne failed")
		return err
	}

	err := im.q.RunWithTransaction(c, func(c ctx.Ctx) error {
		if _, err := im.bid.DeleteByItems(c, []string{id}); err != nil {
			c.WithField("err", err).WithField("id", id).Error("bid.DeleteByItems failed")
			return err
		}
		if err := im.item.Delete(c, id); err != nil {
			c.WithField("err", err).WithField("id", id).Error("item.Delete failed")
			return err
		}
		return nil
	})
	if err == query.ErrNotFound {
		return domain.ErrNotFound
	}
	return err
}
