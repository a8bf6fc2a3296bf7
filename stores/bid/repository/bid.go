package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/database/mongoclient"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/bid"
	"github.com/glazehouse/potteryapi/service/query"
)

type bidImpl struct {
	q query.Mongo
}

func NewBid(q query.Mongo) bid.Repo {
	return &bidImpl{q}
}

func (im *bidImpl) FindAll(c ctx.Ctx, optFns ...bid.SelectOptions) ([]*bid.Bid, error) {
	opts, err := bid.GetSelectOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("bid.GetSelectOptions failed")
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

	res := []*bid.Bid{}

	if err := im.q.Search(c, domain.TableBids, offset, limit, "-createdAt", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *bidImpl) FindOne(c ctx.Ctx, id string) (*bid.Bid, error) {
	res := &bid.Bid{}

	if err := im.q.FindOne(c, domain.TableBids, bson.M{"id": id}, res); err != nil {
		if err != query.ErrNotFound {
			c.WithField("err", err).WithField("id", id).Error("q.FindOne failed")
		}
		return nil, err
	}
	return res, nil
}

func (im *bidImpl) Create(c ctx.Ctx, value *bid.Bid) error {
	if err := im.q.Insert(c, domain.TableBids, value); err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *bidImpl) PatchStatus(c ctx.Ctx, id string, status bid.Status) error {
	if err := im.q.Patch(c, domain.TableBids, bson.M{"id": id}, bson.M{"status": status}); err != nil {
		if err != query.ErrNotFound {
			c.WithField("err", err).WithField("id", id).Error("q.Patch failed")
		}
		return err
	}
	return nil
}

func (im *bidImpl) Delete(c ctx.Ctx, id string) error {
	if err := im.q.Remove(c, domain.TableBids, bson.M{"id": id}); err != nil {
		if err != query.ErrNotFound {
			c.WithField("err", err).WithField("id", id).Error("q.Remove failed")
		}
		return err
	}
	return nil
}

func (im *bidImpl) DeleteByItems(c ctx.Ctx, itemIds []string) (int64, error) {
	if len(itemIds) == 0 {
		return 0, nil
	}

	cnt, err := im.q.RemoveAll(c, domain.TableBids, bson.M{"itemId": bson.M{"$in": itemIds}})
	if err != nil {
		c.WithField("err", err).Error("q.RemoveAll failed")
		return 0, err
	}
	return cnt, nil
}
