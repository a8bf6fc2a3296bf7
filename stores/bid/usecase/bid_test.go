package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/auction"
	mAuction "github.com/glazehouse/potteryapi/domain/auction/mocks"
	"github.com/glazehouse/potteryapi/domain/bid"
	mBid "github.com/glazehouse/potteryapi/domain/bid/mocks"
	"github.com/glazehouse/potteryapi/domain/item"
	mItem "github.com/glazehouse/potteryapi/domain/item/mocks"
	"github.com/glazehouse/potteryapi/service/query"
)

var mockCtx = ctx.Background()

type placeBidSuite struct {
	suite.Suite

	bidRepo     *mBid.Repo
	itemRepo    *mItem.Repo
	auctionRepo *mAuction.Repo
	im          bid.Usecase
}

func (s *placeBidSuite) SetupTest() {
	s.bidRepo = &mBid.Repo{}
	s.itemRepo = &mItem.Repo{}
	s.auctionRepo = &mAuction.Repo{}
	s.im = NewBid(s.bidRepo, s.itemRepo, s.auctionRepo)
}

func TestPlaceBid(t *testing.T) {
	suite.Run(t, new(placeBidSuite))
}

func (s *placeBidSuite) makeItem(startingBid, currentBid float64) *item.Item {
	return &item.Item{
		Id:          "item-1",
		Name:        "celadon vase",
		StartingBid: startingBid,
		CurrentBid:  currentBid,
	}
}

func (s *placeBidSuite) TestRejectsInvalidAmount() {
	for _, amount := range []float64{0, -10, 10.999} {
		_, err := s.im.PlaceBid(mockCtx, "item-1", "u1", amount)
		s.Equal(domain.ErrInvalidInput, err)
	}
	s.itemRepo.AssertNotCalled(s.T(), "FindOne", mock.Anything, mock.Anything)
	s.bidRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *placeBidSuite) TestRejectsUnknownItem() {
	s.itemRepo.On("FindOne", mock.Anything, "missing").Return(nil, query.ErrNotFound)

	_, err := s.im.PlaceBid(mockCtx, "missing", "u1", 60)
	s.Equal(domain.ErrNotFound, err)
	s.bidRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *placeBidSuite) TestFirstBidMustExceedCurrent() {
	// fresh item, current bid seeded from the starting bid
	it := s.makeItem(50, 50)
	s.itemRepo.On("FindOne", mock.Anything, it.Id).Return(it, nil)

	_, err := s.im.PlaceBid(mockCtx, it.Id, "u1", 50)

	var tooLow *domain.BidTooLowError
	s.True(errors.As(err, &tooLow))
	s.Equal(float64(51), tooLow.MinimumBid)
	s.bidRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	s.itemRepo.AssertNotCalled(s.T(), "PatchBidPointer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *placeBidSuite) TestBelowStartingBidReportsStartingMinimum() {
	it := s.makeItem(50, 50)
	s.itemRepo.On("FindOne", mock.Anything, it.Id).Return(it, nil)

	_, err := s.im.PlaceBid(mockCtx, it.Id, "u1", 20)

	var tooLow *domain.BidTooLowError
	s.True(errors.As(err, &tooLow))
	s.Equal(float64(50), tooLow.MinimumBid)
}

func (s *placeBidSuite) TestFirstBidSucceeds() {
	it := s.makeItem(50, 50)
	s.itemRepo.On("FindOne", mock.Anything, it.Id).Return(it, nil)
	s.bidRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).Return([]*bid.Bid{}, nil)
	s.bidRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	s.itemRepo.On("PatchBidPointer", mock.Anything, it.Id, float64(50), mock.MatchedBy(func(p item.BidPointer) bool {
		return p.CurrentBid == 60 && p.HighestBidder == domain.UserId("u1")
	})).Return(nil)

	res, err := s.im.PlaceBid(mockCtx, it.Id, "u1", 60)

	s.NoError(err)
	s.Equal(bid.StatusConfirmed, res.Status)
	s.Equal(float64(60), res.Amount)
	s.Equal(domain.UserId("u1"), res.UserId)
	s.bidRepo.AssertNotCalled(s.T(), "PatchStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (s *placeBidSuite) TestOutbidsPreviousConfirmed() {
	it := s.makeItem(50, 60)
	prev := &bid.Bid{Id: "bid-1", ItemId: it.Id, UserId: "u1", Amount: 60, Status: bid.StatusConfirmed}

	s.itemRepo.On("FindOne", mock.Anything, it.Id).Return(it, nil)
	s.bidRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).Return([]*bid.Bid{prev}, nil)
	s.bidRepo.On("PatchStatus", mock.Anything, prev.Id, bid.StatusOutbid).Return(nil)
	s.bidRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	s.itemRepo.On("PatchBidPointer", mock.Anything, it.Id, float64(60), mock.Anything).Return(nil)

	// equal amount is not enough
	_, err := s.im.PlaceBid(mockCtx, it.Id, "u2", 60)
	var tooLow *domain.BidTooLowError
	s.True(errors.As(err, &tooLow))
	s.Equal(float64(61), tooLow.MinimumBid)

	res, err := s.im.PlaceBid(mockCtx, it.Id, "u2", 75)
	s.NoError(err)
	s.Equal(bid.StatusConfirmed, res.Status)
	s.bidRepo.AssertCalled(s.T(), "PatchStatus", mock.Anything, prev.Id, bid.StatusOutbid)
}

func (s *placeBidSuite) TestAuctionMustBeActive() {
	auctionId := "auction-1"
	it := s.makeItem(50, 50)
	it.AuctionId = &auctionId

	s.itemRepo.On("FindOne", mock.Anything, it.Id).Return(it, nil)
	s.auctionRepo.On("FindOne", mock.Anything, auctionId).Return(&auction.Auction{
		Id:      auctionId,
		Status:  auction.StatusUpcoming,
		EndDate: time.Now().Add(time.Hour),
	}, nil)

	_, err := s.im.PlaceBid(mockCtx, it.Id, "u1", 100)
	s.Equal(domain.ErrAuctionNotActive, err)
	s.bidRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *placeBidSuite) TestAuctionPastEndDate() {
	auctionId := "auction-1"
	it := s.makeItem(50, 50)
	it.AuctionId = &auctionId

	s.itemRepo.On("FindOne", mock.Anything, it.Id).Return(it, nil)
	s.auctionRepo.On("FindOne", mock.Anything, auctionId).Return(&auction.Auction{
		Id:      auctionId,
		Status:  auction.StatusActive,
		EndDate: time.Now().Add(-time.Hour),
	}, nil)

	_, err := s.im.PlaceBid(mockCtx, it.Id, "u1", 100)
	s.Equal(domain.ErrAuctionEnded, err)
	s.bidRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *placeBidSuite) TestMissingAuctionIsNotFound() {
	auctionId := "auction-gone"
	it := s.makeItem(50, 50)
	it.AuctionId = &auctionId

	s.itemRepo.On("FindOne", mock.Anything, it.Id).Return(it, nil)
	s.auctionRepo.On("FindOne", mock.Anything, auctionId).Return(nil, query.ErrNotFound)

	_, err := s.im.PlaceBid(mockCtx, it.Id, "u1", 100)
	s.Equal(domain.ErrNotFound, err)
}

func (s *placeBidSuite) TestPointerConflictIsCompensated() {
	it := s.makeItem(50, 60)
	prev := &bid.Bid{Id: "bid-1", ItemId: it.Id, UserId: "u1", Amount: 60, Status: bid.StatusConfirmed}

	s.itemRepo.On("FindOne", mock.Anything, it.Id).Return(it, nil)
	s.bidRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).Return([]*bid.Bid{prev}, nil)
	s.bidRepo.On("PatchStatus", mock.Anything, prev.Id, bid.StatusOutbid).Return(nil)
	s.bidRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	// another writer moved the pointer between read and write
	s.itemRepo.On("PatchBidPointer", mock.Anything, it.Id, float64(60), mock.Anything).Return(query.ErrNotFound)
	s.bidRepo.On("Delete", mock.Anything, mock.Anything).Return(nil)
	s.bidRepo.On("PatchStatus", mock.Anything, prev.Id, bid.StatusConfirmed).Return(nil)

	_, err := s.im.PlaceBid(mockCtx, it.Id, "u2", 75)
	s.Equal(domain.ErrBidConflict, err)

	s.bidRepo.AssertCalled(s.T(), "Delete", mock.Anything, mock.Anything)
	s.bidRepo.AssertCalled(s.T(), "PatchStatus", mock.Anything, prev.Id, bid.StatusConfirmed)
}

func (s *placeBidSuite) TestPointerWriteFailureIsCompensated() {
	it := s.makeItem(50, 50)

	var insertedId string
	s.itemRepo.On("FindOne", mock.Anything, it.Id).Return(it, nil)
	s.bidRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).Return([]*bid.Bid{}, nil)
	s.bidRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		insertedId = args.Get(1).(*bid.Bid).Id
	}).Return(nil)
	s.itemRepo.On("PatchBidPointer", mock.Anything, it.Id, float64(50), mock.Anything).Return(errors.New("write timeout"))
	s.bidRepo.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := s.im.PlaceBid(mockCtx, it.Id, "u1", 60)
	s.Equal(domain.ErrCommitFailed, err)

	// the inserted bid must be gone afterwards
	s.bidRepo.AssertCalled(s.T(), "Delete", mock.Anything, insertedId)
}

func (s *placeBidSuite) TestGetChecksOwnership() {
	b := &bid.Bid{Id: "bid-1", ItemId: "item-1", UserId: "u1", Amount: 60, Status: bid.StatusConfirmed}
	s.bidRepo.On("FindOne", mock.Anything, b.Id).Return(b, nil)

	res, err := s.im.Get(mockCtx, b.Id, "u1", false)
	s.NoError(err)
	s.Equal(b, res)

	_, err = s.im.Get(mockCtx, b.Id, "u2", false)
	s.Equal(domain.ErrForbidden, err)

	res, err = s.im.Get(mockCtx, b.Id, "u2", true)
	s.NoError(err)
	s.Equal(b, res)
}

func (s *placeBidSuite) TestListScopesToOwnerForNonAdmins() {
	owned := []*bid.Bid{{Id: "bid-1", UserId: "u1"}}
	s.bidRepo.On("FindAll", mock.Anything, mock.Anything).Return(owned, nil)

	res, err := s.im.List(mockCtx, "u1", false)
	s.NoError(err)
	s.Equal(owned, res)
}
