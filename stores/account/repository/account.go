package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/database/mongoclient"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/account"
	"github.com/glazehouse/potteryapi/service/query"
)

type accountImpl struct {
	q query.Mongo
}

func NewAccount(q query.Mongo) account.Repo {
	return &accountImpl{q}
}

func (im *accountImpl) FindOne(c ctx.Ctx, userId domain.UserId) (*account.Account, error) {
	res := &account.Account{}

	if err := im.q.FindOne(c, domain.TableAccounts, bson.M{"userId": userId}, res); err != nil {
		if err != query.ErrNotFound {
			c.WithField("err", err).WithField("userId", userId).Error("q.FindOne failed")
		}
		return nil, err
	}
	return res, nil
}

func (im *accountImpl) FindOneByEmail(c ctx.Ctx, email string) (*account.Account, error) {
	res := &account.Account{}

	if err := im.q.FindOne(c, domain.TableAccounts, bson.M{"email": domain.NormalizeEmail(email)}, res); err != nil {
		if err != query.ErrNotFound {
			c.WithField("err", err).Error("q.FindOne failed")
		}
		return nil, err
	}
	return res, nil
}

func (im *accountImpl) Create(c ctx.Ctx, value *account.Account) error {
	if err := im.q.Insert(c, domain.TableAccounts, value); err != nil {
		if err != query.ErrDuplicateKey {
			c.WithField("err", err).Error("q.Insert failed")
		}
		return err
	}
	return nil
}

func (im *accountImpl) Patch(c ctx.Ctx, userId domain.UserId, updater account.Updater) error {
	patch, err := mongoclient.MakeBsonM(updater)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := im.q.Patch(c, domain.TableAccounts, bson.M{"userId": userId}, patch); err != nil {
		if err != query.ErrNotFound {
			c.WithField("err", err).WithField("userId", userId).Error("q.Patch failed")
		}
		return err
	}
	return nil
}
