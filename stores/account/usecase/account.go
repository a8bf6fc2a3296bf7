package usecase

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/ptr"
	"github.com/glazehouse/potteryapi/base/uid"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/account"
	"github.com/glazehouse/potteryapi/service/query"
)

const minPasswordLen = 8

type accountImpl struct {
	account account.Repo
}

func NewAccount(accountRepo account.Repo) account.Usecase {
	return &accountImpl{
		account: accountRepo,
	}
}

func (im *accountImpl) Register(c ctx.Ctx, email, alias, password string) (*account.Info, error) {
	email = domain.NormalizeEmail(email)
	if len(email) == 0 || len(alias) == 0 || len(password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}

	if _, err := im.account.FindOneByEmail(c, email); err == nil {
		return nil, domain.ErrConflict
	} else if err != query.ErrNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.WithField("err", err).Error("bcrypt.GenerateFromPassword failed")
		return nil, err
	}

	now := time.Now()
	value := &account.Account{
		UserId:       domain.UserId(uid.New()),
		Email:        email,
		Alias:        alias,
		PasswordHash: hash,
		IsAdmin:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := im.account.Create(c, value); err != nil {
		if err == query.ErrDuplicateKey {
			return nil, domain.ErrConflict
		}
		c.WithField("err", err).Error("account.Create failed")
		return nil, err
	}

	return value.ToInfo(), nil
}

func (im *accountImpl) Login(c ctx.Ctx, email, password string) (*account.Account, error) {
	acc, err := im.account.FindOneByEmail(c, email)
	if err == query.ErrNotFound {
		return nil, domain.ErrUnauthorized
	} else if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	return acc, nil
}

func (im *accountImpl) Get(c ctx.Ctx, userId domain.UserId) (*account.Info, error) {
	acc, err := im.account.FindOne(c, userId)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return acc.ToInfo(), nil
}

func (im *accountImpl) Update(c ctx.Ctx, userId domain.UserId, updater account.Updater) (*account.Info, error) {
	if updater.Alias != nil && len(*updater.Alias) == 0 {
		return nil, domain.ErrInvalidInput
	}

	updater.UpdatedAt = ptr.Time(time.Now())

	if err := im.account.Patch(c, userId, updater); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return im.Get(c, userId)
}
