package usecase

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/account"
	mAccount "github.com/glazehouse/potteryapi/domain/account/mocks"
	"github.com/glazehouse/potteryapi/service/query"
)

var mockCtx = ctx.Background()

type accountSuite struct {
	suite.Suite

	accountRepo *mAccount.Repo
	im          account.Usecase
}

func (s *accountSuite) SetupTest() {
	s.accountRepo = &mAccount.Repo{}
	s.im = NewAccount(s.accountRepo)
}

func TestAccountUsecase(t *testing.T) {
	suite.Run(t, new(accountSuite))
}

func (s *accountSuite) TestRegisterNormalizesEmail() {
	s.accountRepo.On("FindOneByEmail", mock.Anything, "potter@example.com").Return(nil, query.ErrNotFound)
	s.accountRepo.On("Create", mock.Anything, mock.MatchedBy(func(acc *account.Account) bool {
		return acc.Email == "potter@example.com" && !acc.IsAdmin
	})).Return(nil)

	info, err := s.im.Register(mockCtx, "  Potter@Example.COM ", "potter", "wheel-thrown")
	s.NoError(err)
	s.Equal("potter@example.com", info.Email)
	s.NotEmpty(info.UserId)
}

func (s *accountSuite) TestRegisterRejectsShortPassword() {
	_, err := s.im.Register(mockCtx, "potter@example.com", "potter", "short")
	s.Equal(domain.ErrInvalidInput, err)
	s.accountRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *accountSuite) TestRegisterRejectsTakenEmail() {
	s.accountRepo.On("FindOneByEmail", mock.Anything, "potter@example.com").Return(&account.Account{
		UserId: "u1",
		Email:  "potter@example.com",
	}, nil)

	_, err := s.im.Register(mockCtx, "potter@example.com", "potter", "wheel-thrown")
	s.Equal(domain.ErrConflict, err)
}

func (s *accountSuite) TestLoginVerifiesPassword() {
	hash, err := bcrypt.GenerateFromPassword([]byte("wheel-thrown"), bcrypt.MinCost)
	s.Require().NoError(err)

	s.accountRepo.On("FindOneByEmail", mock.Anything, "potter@example.com").Return(&account.Account{
		UserId:       "u1",
		Email:        "potter@example.com",
		PasswordHash: hash,
	}, nil)

	acc, err := s.im.Login(mockCtx, "potter@example.com", "wheel-thrown")
	s.NoError(err)
	s.Equal(domain.UserId("u1"), acc.UserId)

	_, err = s.im.Login(mockCtx, "potter@example.com", "hand-built")
	s.Equal(domain.ErrUnauthorized, err)
}

func (s *accountSuite) TestLoginUnknownEmail() {
	s.accountRepo.On("FindOneByEmail", mock.Anything, "ghost@example.com").Return(nil, query.ErrNotFound)

	_, err := s.im.Login(mockCtx, "ghost@example.com", "wheel-thrown")
	s.Equal(domain.ErrUnauthorized, err)
}
