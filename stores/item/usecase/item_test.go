package usecase

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/ptr"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/auction"
	mAuction "github.com/glazehouse/potteryapi/domain/auction/mocks"
	mBid "github.com/glazehouse/potteryapi/domain/bid/mocks"
	"github.com/glazehouse/potteryapi/domain/item"
	mItem "github.com/glazehouse/potteryapi/domain/item/mocks"
	"github.com/glazehouse/potteryapi/service/query"
	mQuery "github.com/glazehouse/potteryapi/service/query/mocks"
)

var mockCtx = ctx.Background()

type itemSuite struct {
	suite.Suite

	q           *mQuery.Mongo
	itemRepo    *mItem.Repo
	auctionRepo *mAuction.Repo
	bidRepo     *mBid.Repo
	im          item.Usecase
}

func (s *itemSuite) SetupTest() {
	s.q = &mQuery.Mongo{}
	s.itemRepo = &mItem.Repo{}
	s.auctionRepo = &mAuction.Repo{}
	s.bidRepo = &mBid.Repo{}
	s.im = NewItem(s.q, s.itemRepo, s.auctionRepo, s.bidRepo)
}

func TestItemUsecase(t *testing.T) {
	suite.Run(t, new(itemSuite))
}

func (s *itemSuite) TestCreateSeedsCurrentBid() {
	value := &item.Item{
		Name:        "celadon vase",
		StartingBid: 50,
	}
	s.itemRepo.On("Create", mock.Anything, value).Return(nil)

	res, err := s.im.Create(mockCtx, value)
	s.NoError(err)
	s.NotEmpty(res.Id)
	s.Equal(float64(50), res.CurrentBid)
	s.Nil(res.HighestBidder)
}

func (s *itemSuite) TestCreateValidatesStartingBid() {
	for _, startingBid := range []float64{0, -5, 9.999} {
		_, err := s.im.Create(mockCtx, &item.Item{Name: "celadon vase", StartingBid: startingBid})
		s.Equal(domain.ErrInvalidInput, err)
	}
	s.itemRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *itemSuite) TestCreateChecksAuctionExists() {
	auctionId := "auction-gone"
	s.auctionRepo.On("FindOne", mock.Anything, auctionId).Return(nil, query.ErrNotFound)

	_, err := s.im.Create(mockCtx, &item.Item{
		Name:        "celadon vase",
		StartingBid: 50,
		AuctionId:   &auctionId,
	})
	s.Equal(domain.ErrNotFound, err)
	s.itemRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *itemSuite) TestCreateAcceptsKnownAuction() {
	auctionId := "auction-1"
	s.auctionRepo.On("FindOne", mock.Anything, auctionId).Return(&auction.Auction{Id: auctionId}, nil)
	s.itemRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := s.im.Create(mockCtx, &item.Item{
		Name:        "celadon vase",
		StartingBid: 50,
		AuctionId:   &auctionId,
	})
	s.NoError(err)
	s.Equal(&auctionId, res.AuctionId)
}

func (s *itemSuite) TestUpdateTouchesTimestamp() {
	id := "item-1"
	s.itemRepo.On("Patch", mock.Anything, id, mock.MatchedBy(func(p item.Patchable) bool {
		return p.Name != nil && *p.Name == "raku bowl" &&
			p.Featured != nil && *p.Featured &&
			p.UpdatedAt != nil
	})).Return(nil)
	s.itemRepo.On("FindOne", mock.Anything, id).Return(&item.Item{Id: id, Name: "raku bowl"}, nil)

	res, err := s.im.Update(mockCtx, id, item.Patchable{
		Name:     ptr.String("raku bowl"),
		Featured: ptr.Bool(true),
	})
	s.NoError(err)
	s.Equal("raku bowl", res.Name)
}

func (s *itemSuite) TestUpdateValidatesStartingBid() {
	_, err := s.im.Update(mockCtx, "item-1", item.Patchable{StartingBid: ptr.Float64(-1)})
	s.Equal(domain.ErrInvalidInput, err)
	s.itemRepo.AssertNotCalled(s.T(), "Patch", mock.Anything, mock.Anything, mock.Anything)
}

func (s *itemSuite) TestUpdateRejectsStartingBidAboveCurrentBid() {
	id := "item-1"
	s.itemRepo.On("FindOne", mock.Anything, id).Return(&item.Item{
		Id:          id,
		StartingBid: 50,
		CurrentBid:  60,
	}, nil)

	_, err := s.im.Update(mockCtx, id, item.Patchable{StartingBid: ptr.Float64(100)})
	s.Equal(domain.ErrInvalidInput, err)
	s.itemRepo.AssertNotCalled(s.T(), "Patch", mock.Anything, mock.Anything, mock.Anything)
}

func (s *itemSuite) TestUpdateAcceptsStartingBidUpToCurrentBid() {
	id := "item-1"
	s.itemRepo.On("FindOne", mock.Anything, id).Return(&item.Item{
		Id:          id,
		StartingBid: 50,
		CurrentBid:  60,
	}, nil)
	s.itemRepo.On("Patch", mock.Anything, id, mock.MatchedBy(func(p item.Patchable) bool {
		return p.StartingBid != nil && *p.StartingBid == 60
	})).Return(nil)

	_, err := s.im.Update(mockCtx, id, item.Patchable{StartingBid: ptr.Float64(60)})
	s.NoError(err)
}

func (s *itemSuite) TestUpdateChecksAuctionExists() {
	s.auctionRepo.On("FindOne", mock.Anything, "auction-gone").Return(nil, query.ErrNotFound)

	_, err := s.im.Update(mockCtx, "item-1", item.Patchable{AuctionId: ptr.String("auction-gone")})
	s.Equal(domain.ErrNotFound, err)
	s.itemRepo.AssertNotCalled(s.T(), "Patch", mock.Anything, mock.Anything, mock.Anything)
}

func (s *itemSuite) TestDeleteCascadesBids() {
	id := "item-1"
	s.itemRepo.On("FindOne", mock.Anything, id).Return(&item.Item{Id: id}, nil)
	s.q.On("RunWithTransaction", mock.Anything, mock.Anything).Return(func(c ctx.Ctx, run func(ctx.Ctx) error) error {
		return run(c)
	})
	s.bidRepo.On("DeleteByItems", mock.Anything, []string{id}).Return(int64(2), nil)
	s.itemRepo.On("Delete", mock.Anything, id).Return(nil)

	s.NoError(s.im.Delete(mockCtx, id))
	s.bidRepo.AssertCalled(s.T(), "DeleteByItems", mock.Anything, []string{id})
	s.itemRepo.AssertCalled(s.T(), "Delete", mock.Anything, id)
}

func (s *itemSuite) TestDeleteUnknownItem() {
	s.itemRepo.On("FindOne", mock.Anything, "missing").Return(nil, query.ErrNotFound)

	s.Equal(domain.ErrNotFound, s.im.Delete(mockCtx, "missing"))
	s.bidRepo.AssertNotCalled(s.T(), "DeleteByItems", mock.Anything, mock.Anything)
}
