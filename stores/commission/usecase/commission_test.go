package usecase

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/ptr"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/commission"
	mCommission "github.com/glazehouse/potteryapi/domain/commission/mocks"
	"github.com/glazehouse/potteryapi/service/query"
)

var mockCtx = ctx.Background()

type commissionSuite struct {
	suite.Suite

	commissionRepo *mCommission.Repo
	im             commission.Usecase
}

func (s *commissionSuite) SetupTest() {
	s.commissionRepo = &mCommission.Repo{}
	s.im = NewCommission(s.commissionRepo)
}

func TestCommissionUsecase(t *testing.T) {
	suite.Run(t, new(commissionSuite))
}

func (s *commissionSuite) TestSubmitAssignsIdAndStatus() {
	value := &commission.Commission{
		UserId:  "u1",
		Title:   "wedding dinner set",
		Details: "twelve place settings, matte glaze",
		Budget:  ptr.Float64(800),
	}
	s.commissionRepo.On("Create", mock.Anything, value).Return(nil)

	res, err := s.im.Submit(mockCtx, value)
	s.NoError(err)
	s.NotEmpty(res.Id)
	s.Equal(commission.StatusSubmitted, res.Status)
	s.False(res.CreatedAt.IsZero())
}

func (s *commissionSuite) TestSubmitValidatesInput() {
	cases := []*commission.Commission{
		{UserId: "u1", Details: "no title"},
		{UserId: "u1", Title: "no details"},
		{Title: "no user", Details: "anonymous request"},
	}

	for _, value := range cases {
		_, err := s.im.Submit(mockCtx, value)
		s.Equal(domain.ErrInvalidInput, err)
	}
	s.commissionRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *commissionSuite) TestSubmitValidatesBudget() {
	for _, budget := range []float64{0, -5, 10.999} {
		_, err := s.im.Submit(mockCtx, &commission.Commission{
			UserId:  "u1",
			Title:   "wedding dinner set",
			Details: "twelve place settings",
			Budget:  ptr.Float64(budget),
		})
		s.Equal(domain.ErrInvalidInput, err)
	}
	s.commissionRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *commissionSuite) TestGetChecksOwnership() {
	stored := &commission.Commission{Id: "comm-1", UserId: "u2"}
	s.commissionRepo.On("FindOne", mock.Anything, "comm-1").Return(stored, nil)

	_, err := s.im.Get(mockCtx, "comm-1", "u1", false)
	s.Equal(domain.ErrForbidden, err)

	res, err := s.im.Get(mockCtx, "comm-1", "u2", false)
	s.NoError(err)
	s.Equal(stored, res)

	res, err = s.im.Get(mockCtx, "comm-1", "admin-1", true)
	s.NoError(err)
	s.Equal(stored, res)
}

func (s *commissionSuite) TestGetMissing() {
	s.commissionRepo.On("FindOne", mock.Anything, "comm-missing").Return(nil, query.ErrNotFound)

	_, err := s.im.Get(mockCtx, "comm-missing", "u1", false)
	s.Equal(domain.ErrNotFound, err)
}

func (s *commissionSuite) TestListScopesToOwnerForNonAdmins() {
	owned := []*commission.Commission{{Id: "comm-1", UserId: "u1"}}
	s.commissionRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(opt commission.SelectOptions) bool {
		opts, err := commission.GetSelectOptions(opt)
		return err == nil && opts.UserId != nil && *opts.UserId == domain.UserId("u1")
	})).Return(owned, nil)

	res, err := s.im.List(mockCtx, "u1", false)
	s.NoError(err)
	s.Equal(owned, res)
}

func (s *commissionSuite) TestListAdminSeesAll() {
	all := []*commission.Commission{
		{Id: "comm-1", UserId: "u1"},
		{Id: "comm-2", UserId: "u2"},
	}
	s.commissionRepo.On("FindAll", mock.Anything).Return(all, nil)

	res, err := s.im.List(mockCtx, "admin-1", true)
	s.NoError(err)
	s.Equal(all, res)
}

func (s *commissionSuite) TestUpdateValidatesStatus() {
	bogus := commission.Status("misfired")
	_, err := s.im.Update(mockCtx, "comm-1", commission.Patchable{Status: &bogus})
	s.Equal(domain.ErrInvalidInput, err)
	s.commissionRepo.AssertNotCalled(s.T(), "Patch", mock.Anything, mock.Anything, mock.Anything)
}

func (s *commissionSuite) TestUpdateSetsTimestamp() {
	accepted := commission.StatusAccepted
	s.commissionRepo.On("Patch", mock.Anything, "comm-1", mock.MatchedBy(func(p commission.Patchable) bool {
		return p.Status != nil && *p.Status == accepted && p.UpdatedAt != nil
	})).Return(nil)
	s.commissionRepo.On("FindOne", mock.Anything, "comm-1").Return(&commission.Commission{
		Id:     "comm-1",
		Status: accepted,
	}, nil)

	res, err := s.im.Update(mockCtx, "comm-1", commission.Patchable{Status: &accepted})
	s.NoError(err)
	s.Equal(accepted, res.Status)
}
