package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/database/mongoclient"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/item"
	"github.com/glazehouse/potteryapi/domain/keys"
	"github.com/glazehouse/potteryapi/service/cache"
	"github.com/glazehouse/potteryapi/service/cache/compoundcache"
	"github.com/glazehouse/potteryapi/service/cache/provider/primitive"
	"github.com/glazehouse/potteryapi/service/cache/provider/redis"
	"github.com/glazehouse/potteryapi/service/query"
	redisService "github.com/glazehouse/potteryapi/service/redis"
)

type itemImpl struct {
	q     query.Mongo
	cache cache.Service
}

func NewItem(q query.Mongo, redisSvc redisService.Service) item.Repo {
	cacheLayers := []cache.Service{
		cache.New(cache.ServiceConfig{
			Ttl:   10 * time.Second,
			Pfx:   keys.PfxItem,
			Cache: primitive.NewPrimitive("item", 32),
		}),
	}
	if redisSvc != nil {
		cacheLayers = append(cacheLayers, cache.New(cache.ServiceConfig{
			Ttl:   30 * time.Second,
			Pfx:   keys.PfxItem,
			Cache: redis.NewRedis(redisSvc),
		}))
	}

	return &itemImpl{
		q:     q,
		cache: compoundcache.NewCompoundCache(cacheLayers),
	}
}

func (im *itemImpl) FindAll(c ctx.Ctx, optFns ...item.SelectOptions) ([]*item.Item, error) {
	opts, err := item.GetSelectOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("item.GetSelectOptions failed")
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

	res := []*item.Item{}

	if err := im.q.Search(c, domain.TableItems, offset, limit, "-createdAt", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *itemImpl) FindOne(c ctx.Ctx, id string) (*item.Item, error) {
	res := &item.Item{}

	key := keys.RedisKey(id)
	getter := func() (interface{}, error) {
		value := &item.Item{}
		if err := im.q.FindOne(c, domain.TableItems, bson.M{"id": id}, value); err != nil {
			c.WithField("err", err).WithField("id", id).Error("q.FindOne failed")
			return nil, err
		}
		return value, nil
	}

	if err := im.cache.GetByFunc(c, key, res, getter); err != nil {
		return nil, err
	}
	return res, nil
}

func (im *itemImpl) Create(c ctx.Ctx, value *item.Item) error {
	if err := im.q.Insert(c, domain.TableItems, value); err != nil {
		c.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *itemImpl) Patch(c ctx.Ctx, id string, patchable item.Patchable) error {
	patch, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := im.q.Patch(c, domain.TableItems, bson.M{"id": id}, patch); err != nil {
		c.WithField("err", err).WithField("id", id).Error("q.Patch failed")
		return err
	}

	im.invalidateCache(c, id)
	return nil
}

// PatchBidPointer applies the denormalized bid pointer only when the stored
// currentBid still equals prevBid. A concurrent winner makes the selector
// match nothing and query.ErrNotFound is returned untouched.
func (im *itemImpl) PatchBidPointer(c ctx.Ctx, id string, prevBid float64, pointer item.BidPointer) error {
	selector := bson.M{
		"id":         id,
		"currentBid": prevBid,
	}
	update := bson.M{
		"$set": bson.M{
			"currentBid":    pointer.CurrentBid,
			"highestBidder": pointer.HighestBidder,
			"updatedAt":     pointer.UpdatedAt,
		},
	}

	if err := im.q.CustomPatch(c, domain.TableItems, selector, update, false); err != nil {
		if err != query.ErrNotFound {
			c.WithField("err", err).WithField("id", id).Error("q.CustomPatch failed")
		}
		return err
	}

	im.invalidateCache(c, id)
	return nil
}

func (im *itemImpl) Delete(c ctx.Ctx, id string) error {
	if err := im.q.Remove(c, domain.TableItems, bson.M{"id": id}); err != nil {
		c.WithField("err", err).WithField("id", id).Error("q.Remove failed")
		return err
	}

	im.invalidateCache(c, id)
	return nil
}

func (im *itemImpl) DeleteByAuction(c ctx.Ctx, auctionId string) (int64, error) {
	items, err := im.FindAll(c, item.WithAuctionId(auctionId))
	if err != nil {
		return 0, err
	}

	cnt, err := im.q.RemoveAll(c, domain.TableItems, bson.M{"auctionId": auctionId})
	if err != nil {
		c.WithField("err", err).WithField("auctionId", auctionId).Error("q.RemoveAll failed")
		return 0, err
	}

	for _, it := range items {
		im.invalidateCache(c, it.Id)
	}
	return cnt, nil
}

func (im *itemImpl) invalidateCache(c ctx.Ctx, id string) {
	key := keys.RedisKey(id)
	if err := im.cache.Del(c, key); err != nil {
		c.WithField("err", err).WithField("key", key).Warn("cache.Del failed")
	}
}
