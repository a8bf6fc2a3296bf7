package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/account"
	mAccount "github.com/glazehouse/potteryapi/domain/account/mocks"
)

var mockCtx = ctx.Background()

func TestSignAndParseToken(t *testing.T) {
	accountRepo := &mAccount.Repo{}
	accountRepo.On("FindOne", mock.Anything, domain.UserId("u1")).Return(&account.Account{
		UserId:  "u1",
		IsAdmin: false,
	}, nil)
	accountRepo.On("FindOne", mock.Anything, domain.UserId("admin-1")).Return(&account.Account{
		UserId:  "admin-1",
		IsAdmin: true,
	}, nil)

	im := New("test-secret", accountRepo)

	ss, err := im.SignToken(mockCtx, "u1")
	assert.NoError(t, err)
	userId, isAdmin, err := im.ParseToken(mockCtx, ss)
	assert.NoError(t, err)
	assert.Equal(t, domain.UserId("u1"), userId)
	assert.False(t, isAdmin)

	ss, err = im.SignToken(mockCtx, "admin-1")
	assert.NoError(t, err)
	userId, isAdmin, err = im.ParseToken(mockCtx, ss)
	assert.NoError(t, err)
	assert.Equal(t, domain.UserId("admin-1"), userId)
	assert.True(t, isAdmin)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	im := New("test-secret", &mAccount.Repo{})

	_, _, err := im.ParseToken(mockCtx, "not-a-token")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	accountRepo := &mAccount.Repo{}
	accountRepo.On("FindOne", mock.Anything, mock.Anything).Return(&account.Account{UserId: "u1"}, nil)

	signer := New("secret-a", accountRepo)
	verifier := New("secret-b", accountRepo)

	ss, err := signer.SignToken(mockCtx, "u1")
	assert.NoError(t, err)

	_, _, err = verifier.ParseToken(mockCtx, ss)
	assert.Error(t, err)
}
