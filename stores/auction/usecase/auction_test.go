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
	mBid "github.com/glazehouse/potteryapi/domain/bid/mocks"
	"github.com/glazehouse/potteryapi/domain/item"
	mItem "github.com/glazehouse/potteryapi/domain/item/mocks"
	mQuery "github.com/glazehouse/potteryapi/service/query/mocks"
)

var mockCtx = ctx.Background()

type auctionSuite struct {
	suite.Suite

	q           *mQuery.Mongo
	auctionRepo *mAuction.Repo
	itemRepo    *mItem.Repo
	bidRepo     *mBid.Repo
	im          auction.Usecase
}

func (s *auctionSuite) SetupTest() {
	s.q = &mQuery.Mongo{}
	s.auctionRepo = &mAuction.Repo{}
	s.itemRepo = &mItem.Repo{}
	s.bidRepo = &mBid.Repo{}
	s.im = NewAuction(s.q, s.auctionRepo, s.itemRepo, s.bidRepo)
}

func TestAuctionUsecase(t *testing.T) {
	suite.Run(t, new(auctionSuite))
}

func (s *auctionSuite) TestCreateValidatesDates() {
	now := time.Now()
	value := &auction.Auction{
		Title:     "spring kiln opening",
		Status:    auction.StatusUpcoming,
		StartDate: now.Add(time.Hour),
		EndDate:   now, // before StartDate
	}

	_, err := s.im.Create(mockCtx, value)
	s.Equal(domain.ErrInvalidInput, err)
	s.auctionRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *auctionSuite) TestCreateAssignsId() {
	now := time.Now()
	value := &auction.Auction{
		Title:     "spring kiln opening",
		Status:    auction.StatusUpcoming,
		StartDate: now,
		EndDate:   now.Add(24 * time.Hour),
	}
	s.auctionRepo.On("Create", mock.Anything, value).Return(nil)

	res, err := s.im.Create(mockCtx, value)
	s.NoError(err)
	s.NotEmpty(res.Id)
}

func (s *auctionSuite) TestUpdateRejectsInvertedDates() {
	now := time.Now()
	current := &auction.Auction{
		Id:        "auction-1",
		Title:     "spring kiln opening",
		Status:    auction.StatusUpcoming,
		StartDate: now,
		EndDate:   now.Add(24 * time.Hour),
	}
	s.auctionRepo.On("FindOne", mock.Anything, current.Id).Return(current, nil)

	endDate := now.Add(-time.Hour)
	_, err := s.im.Update(mockCtx, current.Id, auction.Patchable{EndDate: &endDate})
	s.Equal(domain.ErrInvalidInput, err)
	s.auctionRepo.AssertNotCalled(s.T(), "Patch", mock.Anything, mock.Anything, mock.Anything)
}

func (s *auctionSuite) TestDeleteCascadesItemsAndBids() {
	auctionId := "auction-1"
	items := []*item.Item{
		{Id: "item-1", AuctionId: &auctionId},
		{Id: "item-2", AuctionId: &auctionId},
	}

	s.auctionRepo.On("FindOne", mock.Anything, auctionId).Return(&auction.Auction{Id: auctionId}, nil)
	s.q.On("RunWithTransaction", mock.Anything, mock.Anything).Return(func(c ctx.Ctx, run func(ctx.Ctx) error) error {
		return run(c)
	})
	s.itemRepo.On("FindAll", mock.Anything, mock.Anything).Return(items, nil)
	s.bidRepo.On("DeleteByItems", mock.Anything, []string{"item-1", "item-2"}).Return(int64(3), nil)
	s.itemRepo.On("DeleteByAuction", mock.Anything, auctionId).Return(int64(2), nil)
	s.auctionRepo.On("Delete", mock.Anything, auctionId).Return(nil)

	s.NoError(s.im.Delete(mockCtx, auctionId))
	s.bidRepo.AssertCalled(s.T(), "DeleteByItems", mock.Anything, []string{"item-1", "item-2"})
	s.auctionRepo.AssertCalled(s.T(), "Delete", mock.Anything, auctionId)
}

func (s *auctionSuite) TestCloseExpiredMarksAuctionsEnded() {
	ts := time.Now()
	expired := []*auction.Auction{
		{Id: "auction-1", Status: auction.StatusActive},
		{Id: "auction-2", Status: auction.StatusActive},
	}

	s.auctionRepo.On("FindExpired", mock.Anything, ts).Return(expired, nil)
	s.auctionRepo.On("Patch", mock.Anything, "auction-1", mock.MatchedBy(func(p auction.Patchable) bool {
		return p.Status != nil && *p.Status == auction.StatusEnded
	})).Return(nil)
	s.auctionRepo.On("Patch", mock.Anything, "auction-2", mock.Anything).Return(errors.New("write timeout"))

	closed, err := s.im.CloseExpired(mockCtx, ts)
	s.NoError(err)
	s.Equal(1, closed)
}

func (s *auctionSuite) TestCloseExpiredNoWork() {
	ts := time.Now()
	s.auctionRepo.On("FindExpired", mock.Anything, ts).Return([]*auction.Auction{}, nil)

	closed, err := s.im.CloseExpired(mockCtx, ts)
	s.NoError(err)
	s.Equal(0, closed)
}
