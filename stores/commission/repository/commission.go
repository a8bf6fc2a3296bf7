package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/database/mongoclient"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/commission"
	"github.com/glazehouse/potteryapi/service/query"
)

type commissionImpl struct {
	q query.Mongo
}

func NewCommission(q query.Mongo) commission.Repo {
	return &commissionImpl{q}
}

func (im *commissionImpl) FindAll(c ctx.Ctx, optFns ...commission.SelectOptions) ([]*commission.Commission, error) {
	opts, err := commission.GetSelectOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("commission.GetSelectOptions failed")
		return nil, err
	}

	offset := 0
	limit := 0
	if opts.Offset != nil {
		offset = *opts.Offset
	}
	if opts.Limit != nil {
		limit = *opts.Limit
	}

	qry, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}

	res := []*commission.Commission{}

	if err := im.q.Search(c, domain.TableCommissions, offset, limit, "-createdAt", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *commissionImpl) FindOne(c ctx.Ctx, id string) (*commission.Commission, error) {
	res := &commission.Commission{}

	if err := im.q.FindOne(c, domain.TableCommissions, bson.M{"id": id}, res); err != nil {
		if err != query.ErrNotFound {
			c.WithField("err", err).WithField("id", id).Error("q.FindOne failed")
		}
		return nil, err
	}
	return res, nil
}

func (im *commissionImpl) Create(c ctx.Ctx, value *commission.Commission) error {
	if err := im.q.Insert(c, domain.TableCommissions, value); err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *commissionImpl) Patch(c ctx.Ctx, id string, patchable commission.Patchable) error {
	patch, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := im.q.Patch(c, domain.TableCommissions, bson.M{"id": id}, patch); err != nil {
		if err != query.ErrNotFound {
			c.WithField("err", err).WithField("id", id).Error("q.Patch failed")
		}
		return err
	}
	return nil
}
