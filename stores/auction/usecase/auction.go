package usecase

import (
	"time"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/ptr"
	"github.com/glazehouse/potteryapi/base/uid"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/auction"
	"github.com/glazehouse/potteryapi/domain/bid"
	"github.com/glazehouse/potteryapi/domain/item"
	"github.com/glazehouse/potteryapi/service/query"
)

type auctionImpl struct {
	q       query.Mongo
	auction auction.Repo
	item    item.Repo
	bid     bid.Repo
}

func NewAuction(q query.Mongo, auctionRepo auction.Repo, itemRepo item.Repo, bidRepo bid.Repo) auction.Usecase {
	return &auctionImpl{
		q:       q,
		auction: auctionRepo,
		item:    itemRepo,
		bid:     bidRepo,
	}
}

func (im *auctionImpl) List(c ctx.Ctx, opts ...auction.SelectOptions) ([]*auction.Auction, error) {
	res, err := im.auction.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("auction.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *auctionImpl) Get(c ctx.Ctx, id string) (*auction.Auction, error) {
	res, err := im.auction.FindOne(c, id)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return res, nil
}

func (im *auctionImpl) Create(c ctx.Ctx, value *auction.Auction) (*auction.Auction, error) {
	if len(value.Title) == 0 || !value.Status.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	if !value.EndDate.After(value.StartDate) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	value.Id = uid.New()
	value.CreatedAt = now
	value.UpdatedAt = now

	if err := im.auction.Create(c, value); err != nil {
		c.WithField("err", err).Error("auction.Create failed")
		return nil, err
	}
	return value, nil
}

func (im *auctionImpl) Update(c ctx.Ctx, id string, patchable auction.Patchable) (*auction.Auction, error) {
	if patchable.Status != nil && !patchable.Status.IsValid() {
		return nil, domain.ErrInvalidInput
	}

	current, err := im.Get(c, id)
	if err != nil {
		return nil, err
	}

	startDate := current.StartDate
	endDate := current.EndDate
	if patchable.StartDate != nil {
		startDate = *patchable.StartDate
	}
	if patchable.EndDate != nil {
		endDate = *patchable.EndDate
	}
	if !endDate.After(startDate) {
		return nil, domain.ErrInvalidInput
	}

	patchable.UpdatedAt = ptr.Time(time.Now())

	if err := im.auction.Patch(c, id, patchable); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return im.Get(c, id)
}

// Delete removes the auction, its items, and every bid on those items
// in one transaction
func (im *auctionImpl) Delete(c ctx.Ctx, id string) error {
	if _, err := im.Get(c, id); err != nil {
		return err
	}

	return im.q.RunWithTransaction(c, func(c ctx.Ctx) error {
		items, err := im.item.FindAll(c, item.WithAuctionId(id))
		if err != nil {
			c.WithField("err", err).Error("item.FindAll failed")
			return err
		}

		if len(items) > 0 {
			itemIds := make([]string, 0, len(items))
			for _, it := range items {
				itemIds = append(itemIds, it.Id)
			}

			if _, err := im.bid.DeleteByItems(c, itemIds); err != nil {
				c.WithField("err", err).Error("bid.DeleteByItems failed")
				return err
			}
			if _, err := im.item.DeleteByAuction(c, id); err != nil {
				c.WithField("err", err).Error("item.DeleteByAuction failed")
				return err
			}
		}

		if err := im.auction.Delete(c, id); err != nil {
			c.WithField("err", err).Error("auction.Delete failed")
			return err
		}
		return nil
	})
}

// CloseExpired marks active auctions past their end date as ended and
// returns how many were closed
func (im *auctionImpl) CloseExpired(c ctx.Ctx, ts time.Time) (int, error) {
	expired, err := im.auction.FindExpired(c, ts)
	if err != nil {
		c.WithField("err", err).Error("auction.FindExpired failed")
		return 0, err
	}

	closed := 0
	ended := auction.StatusEnded
	for _, a := range expired {
		patch := auction.Patchable{
			Status:    &ended,
			UpdatedAt: ptr.Time(ts),
		}
		if err := im.auction.Patch(c, a.Id, patch); err != nil {
			c.WithField("err", err).WithField("auctionId", a.Id).Error("auction.Patch failed")
			continue
		}
		closed++
	}

	return closed, nil
}
