package usecase

import (
	"sync"
	"time"

	"github.com/glazehouse/potteryapi/base/backoff"
	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/money"
	"github.com/glazehouse/potteryapi/base/uid"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/auction"
	"github.com/glazehouse/potteryapi/domain/bid"
	"github.com/glazehouse/potteryapi/domain/item"
	"github.com/glazehouse/potteryapi/service/query"
)

const (
	compensateRetries      = 3
	compensateBackoffStart = 50 * time.Millisecond
	compensateBackoffLimit = time.Second
)

type bidImpl struct {
	bid     bid.Repo
	item    item.Repo
	auction auction.Repo

	// itemLocks serializes in-process bid commits per item. Cross-process
	// races are closed by the conditional item update in item.Repo.
	itemLocks sync.Map
}

func NewBid(bidRepo bid.Repo, itemRepo item.Repo, auctionRepo auction.Repo) bid.Usecase {
	return &bidImpl{
		bid:     bidRepo,
		item:    itemRepo,
		auction: auctionRepo,
	}
}

func (im *bidImpl) lockItem(itemId string) func() {
	mu, _ := im.itemLocks.LoadOrStore(itemId, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

func (im *bidImpl) PlaceBid(c ctx.Ctx, itemId string, userId domain.UserId, amount float64) (*bid.Bid, error) {
	if !money.IsValidAmount(amount) {
		return nil, domain.ErrInvalidInput
	}

	unlock := im.lockItem(itemId)
	defer unlock()

	it, err := im.item.FindOne(c, itemId)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("itemId", itemId).Error("item.FindOne failed")
		return nil, err
	}

	if !money.GreaterThanOrEqual(amount, it.StartingBid) {
		return nil, &domain.BidTooLowError{MinimumBid: it.StartingBid}
	}
	if !money.GreaterThan(amount, it.CurrentBid) {
		return nil, &domain.BidTooLowError{MinimumBid: money.MinimumRaise(it.CurrentBid)}
	}

	if it.AuctionId != nil {
		auc, err := im.auction.FindOne(c, *it.AuctionId)
		if err == query.ErrNotFound {
			return nil, domain.ErrNotFound
		} else if err != nil {
			c.WithField("err", err).WithField("auctionId", *it.AuctionId).Error("auction.FindOne failed")
			return nil, err
		}

		if auc.Status != auction.StatusActive {
			return nil, domain.ErrAuctionNotActive
		}
		if time.Now().After(auc.EndDate) {
			return nil, domain.ErrAuctionEnded
		}
	}

	return im.commit(c, it, userId, amount)
}

// commit supersedes the previous confirmed bid, inserts the new one, and
// flips the item pointer with a conditional update keyed on the bid the
// validation read. Any failure after the insert is unwound.
func (im *bidImpl) commit(c ctx.Ctx, it *item.Item, userId domain.UserId, amount float64) (*bid.Bid, error) {
	superseded, err := im.bid.FindAll(c, bid.WithItemId(it.Id), bid.WithStatus(bid.StatusConfirmed))
	if err != nil {
		c.WithField("err", err).WithField("itemId", it.Id).Error("bid.FindAll failed")
		return nil, err
	}

	outbid := []*bid.Bid{}
	for _, b := range superseded {
		if err := im.bid.PatchStatus(c, b.Id, bid.StatusOutbid); err != nil {
			c.WithField("err", err).WithField("bidId", b.Id).Error("bid.PatchStatus failed")
			im.restoreConfirmed(c, outbid)
			return nil, domain.ErrCommitFailed
		}
		outbid = append(outbid, b)
	}

	newBid := &bid.Bid{
		Id:        uid.New(),
		ItemId:    it.Id,
		UserId:    userId,
		Amount:    amount,
		Status:    bid.StatusConfirmed,
		CreatedAt: time.Now(),
	}

	if err := im.bid.Create(c, newBid); err != nil {
		c.WithField("err", err).WithField("itemId", it.Id).Error("bid.Create failed")
		im.restoreConfirmed(c, outbid)
		return nil, domain.ErrCommitFailed
	}

	pointer := item.BidPointer{
		CurrentBid:    amount,
		HighestBidder: userId,
		UpdatedAt:     time.Now(),
	}

	if err := im.item.PatchBidPointer(c, it.Id, it.CurrentBid, pointer); err != nil {
		im.compensate(c, newBid, outbid)

		if err == query.ErrNotFound {
			// a concurrent bid moved the pointer between read and write
			return nil, domain.ErrBidConflict
		}
		c.WithField("err", err).WithField("itemId", it.Id).Error("item.PatchBidPointer failed")
		return nil, domain.ErrCommitFailed
	}

	return newBid, nil
}

// compensate deletes the just-inserted bid and restores the superseded
// ones, leaving stored state as it was before the call
func (im *bidImpl) compensate(c ctx.Ctx, inserted *bid.Bid, outbid []*bid.Bid) {
	bo := backoff.NewExponential(compensateBackoffStart, compensateBackoffLimit)
	for i := 0; i < compensateRetries; i++ {
		err := im.bid.Delete(c, inserted.Id)
		if err == nil || err == query.ErrNotFound {
			break
		}
		c.WithField("err", err).WithField("bidId", inserted.Id).Warn("compensating delete failed")
		if i == compensateRetries-1 {
			// orphaned confirmed bid; surfaced for reconciliation
			c.WithField("bidId", inserted.Id).Error("compensating delete gave up")
			return
		}
		if err := bo.Backoff(c); err != nil {
			return
		}
	}

	im.restoreConfirmed(c, outbid)
}

func (im *bidImpl) restoreConfirmed(c ctx.Ctx, bids []*bid.Bid) {
	bo := backoff.NewExponential(compensateBackoffStart, compensateBackoffLimit)
	for _, b := range bids {
		for i := 0; i < compensateRetries; i++ {
			err := im.bid.PatchStatus(c, b.Id, bid.StatusConfirmed)
			if err == nil {
				break
			}
			c.WithField("err", err).WithField("bidId", b.Id).Warn("restore confirmed failed")
			if i == compensateRetries-1 {
				c.WithField("bidId", b.Id).Error("restore confirmed gave up")
				break
			}
			if err := bo.Backoff(c); err != nil {
				return
			}
		}
		bo.Reset()
	}
}

func (im *bidImpl) Get(c ctx.Ctx, id string, caller domain.UserId, isAdmin bool) (*bid.Bid, error) {
	res, err := im.bid.FindOne(c, id)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if !isAdmin && !res.UserId.Equals(caller) {
		return nil, domain.ErrForbidden
	}
	return res, nil
}

func (im *bidImpl) List(c ctx.Ctx, caller domain.UserId, isAdmin bool, opts ...bid.SelectOptions) ([]*bid.Bid, error) {
	if !isAdmin {
		// non-admins only ever see their own bids
		opts = append(opts, bid.WithUserId(caller))
	}

	res, err := im.bid.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("bid.FindAll failed")
		return nil, err
	}
	return res, nil
}
