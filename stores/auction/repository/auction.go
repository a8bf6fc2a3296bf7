package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/database/mongoclient"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/auction"
	"github.com/glazehouse/potteryapi/domain/keys"
	"github.com/glazehouse/potteryapi/service/cache"
	"github.com/glazehouse/potteryapi/service/cache/compoundcache"
	"github.com/glazehouse/potteryapi/service/cache/provider/primitive"
	"github.com/glazehouse/potteryapi/service/cache/provider/redis"
	"github.com/glazehouse/potteryapi/service/query"
	redisService "github.com/glazehouse/potteryapi/service/redis"
)

type auctionImpl struct {
	q     query.Mongo
	cache cache.Service
}

func NewAuction(q query.Mongo, redisSvc redisService.Service) auction.Repo {
	cacheLayers := []cache.Service{
		cache.New(cache.ServiceConfig{
			Ttl:   10 * time.Second,
			Pfx:   keys.PfxAuction,
			Cache: primitive.NewPrimitive("auction", 32),
		}),
	}
	if redisSvc != nil {
		cacheLayers = append(cacheLayers, cache.New(cache.ServiceConfig{
			Ttl:   30 * time.Second,
			Pfx:   keys.PfxAuction,
			Cache: redis.NewRedis(redisSvc),
		}))
	}

	return &auctionImpl{
		q:     q,
		cache: compoundcache.NewCompoundCache(cacheLayers),
	}
}

func (im *auctionImpl) FindAll(c ctx.Ctx, optFns ...auction.SelectOptions) ([]*auction.Auction, error) {
	opts, err := auction.GetSelectOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("auction.GetSelectOptions failed")
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

	res := []*auction.Auction{}

	if err := im.q.Search(c, domain.TableAuctions, offset, limit, "-startDate", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *auctionImpl) FindOne(c ctx.Ctx, id string) (*auction.Auction, error) {
	res := &auction.Auction{}

	key := keys.RedisKey(id)
	getter := func() (interface{}, error) {
		value := &auction.Auction{}
		if err := im.q.FindOne(c, domain.TableAuctions, bson.M{"id": id}, value); err != nil {
			if err != query.ErrNotFound {
				c.WithField("err", err).WithField("id", id).Error("q.FindOne failed")
			}
			return nil, err
		}
		return value, nil
	}

	if err := im.cache.GetByFunc(c, key, res, getter); err != nil {
		return nil, err
	}
	return res, nil
}

func (im *auctionImpl) Create(c ctx.Ctx, value *auction.Auction) error {
	if err := im.q.Insert(c, domain.TableAuctions, value); err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *auctionImpl) Patch(c ctx.Ctx, id string, patchable auction.Patchable) error {
	patch, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := im.q.Patch(c, domain.TableAuctions, bson.M{"id": id}, patch); err != nil {
		if err != query.ErrNotFound {
			c.WithField("err", err).WithField("id", id).Error("q.Patch failed")
		}
		return err
	}

	im.invalidateCache(c, id)
	return nil
}

func (im *auctionImpl) Delete(c ctx.Ctx, id string) error {
	if err := im.q.Remove(c, domain.TableAuctions, bson.M{"id": id}); err != nil {
		if err != query.ErrNotFound {
			c.WithField("err", err).WithField("id", id).Error("q.Remove failed")
		}
		return err
	}

	im.invalidateCache(c, id)
	return nil
}

func (im *auctionImpl) FindExpired(c ctx.Ctx, ts time.Time) ([]*auction.Auction, error) {
	qry := bson.M{
		"status":  auction.StatusActive,
		"endDate": bson.M{"$lt": ts},
	}

	res := []*auction.Auction{}

	if err := im.q.Search(c, domain.TableAuctions, 0, 0, "endDate", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *auctionImpl) invalidateCache(c ctx.Ctx, id string) {
	key := keys.RedisKey(id)
	if err := im.cache.Del(c, key); err != nil {
		c.WithField("err", err).WithField("key", key).Warn("cache.Del failed")
	}
}
