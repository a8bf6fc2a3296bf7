package query

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/database/mongoclient"
	"github.com/glazehouse/potteryapi/base/log"
	"github.com/glazehouse/potteryapi/domain"
)

const (
	queryMaxTime = 20 * time.Second

	// slowQueryThresholdMs is the duration above which a query is logged
	slowQueryThresholdMs = int64(500)

	// txConcurrency bounds concurrent mongo transactions to keep the
	// session pool from exhausting under bid bursts
	txConcurrency = 10
)

type impl struct {
	client     *mongoclient.Client
	checkIndex bool
	txTokens   chan struct{}
}

// New wraps the connected client as a Mongo implementation
func New(client *mongoclient.Client, checkIndex bool) Mongo {
	tokens := make(chan struct{}, txConcurrency)
	for i := 0; i < txConcurrency; i++ {
		tokens <- struct{}{}
	}
	return &impl{
		client:     client,
		checkIndex: checkIndex,
		txTokens:   tokens,
	}
}

func (im *impl) coll(table domain.Table) *mongo.Collection {
	return im.client.Database(im.client.DbName).Collection(string(table))
}

func (im *impl) Insert(context ctx.Ctx, table domain.Table, insert interface{}) error {
	defer slowLog(context, table, "insert", nil)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table":  table,
		"insert": insert,
	})

	if _, err := im.coll(table).InsertOne(context, insert); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		context.WithField("err", err).Error("InsertOne failed")
		return err
	}
	return nil
}

func (im *impl) FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error {
	defer slowLog(context, table, "findone", query)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table": table,
		"query": query,
	})

	if err := im.checkQueryIndex(context, table, "find", bson.E{Key: "filter", Value: query}); err != nil {
		return err
	}

	opts := options.FindOne().SetMaxTime(queryMaxTime)
	res := im.coll(table).FindOne(context, query, opts)

	if err := res.Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		context.WithField("err", err).Error("FindOne failed")
		return err
	}
	return nil
}

func (im *impl) Count(context ctx.Ctx, table domain.Table, selector interface{}) (int, error) {
	defer slowLog(context, table, "count", selector)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table":    table,
		"selector": selector,
	})

	if err := im.checkQueryIndex(context, table, "count", bson.E{Key: "query", Value: selector}); err != nil {
		return 0, err
	}

	opts := options.Count().SetMaxTime(queryMaxTime)
	count, err := im.coll(table).CountDocuments(context, selector, opts)
	if err != nil {
		context.WithField("err", err).Error("CountDocuments failed")
		return 0, err
	}
	return int(count), nil
}

// sortOption translates "field" / "-field" into a mongo sort document
func sortOption(sorts ...string) bson.D {
	res := bson.D{}
	for _, sort := range sorts {
		if sort == "" {
			continue
		}
		if sort[0] == '-' {
			res = append(res, bson.E{Key: sort[1:], Value: -1})
		} else {
			res = append(res, bson.E{Key: sort, Value: 1})
		}
	}
	return res
}

func (im *impl) Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error {
	defer slowLog(context, table, "search", query)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table": table,
		"query": query,
	})

	if err := im.checkQueryIndex(context, table, "find", bson.E{Key: "filter", Value: query}); err != nil {
		return err
	}

	opts := options.Find().SetMaxTime(queryMaxTime)
	opts.SetLimit(int64(limit)).SetSkip(int64(offset))
	if sortOpt := sortOption(sort); len(sortOpt) > 0 {
		opts.SetSort(sortOpt)
	}

	cursor, err := im.coll(table).Find(context, query, opts)
	if err != nil {
		context.WithField("err", err).Error("Find failed")
		return err
	}
	defer cursor.Close(context)

	if err := cursor.All(context, results); err != nil {
		context.WithField("err", err).Error("cursor.All failed")
		return err
	}
	return nil
}

func (im *impl) Remove(context ctx.Ctx, table domain.Table, selector interface{}) error {
	defer slowLog(context, table, "remove", selector)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table":    table,
		"selector": selector,
	})

	res, err := im.coll(table).DeleteOne(context, selector)
	if err != nil {
		context.WithField("err", err).Error("DeleteOne failed")
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (im *impl) RemoveAll(context ctx.Ctx, table domain.Table, selector interface{}) (int64, error) {
	defer slowLog(context, table, "removeAll", selector)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table":    table,
		"selector": selector,
	})

	res, err := im.coll(table).DeleteMany(context, selector)
	if err != nil {
		context.WithField("err", err).Error("DeleteMany failed")
		return 0, err
	}
	return res.DeletedCount, nil
}

func (im *impl) Patch(context ctx.Ctx, table domain.Table, selector, update interface{}) error {
	defer slowLog(context, table, "update", selector)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table":    table,
		"selector": selector,
		"update":   update,
	})

	res, err := im.coll(table).UpdateOne(context, selector, bson.M{"$set": update})
	if err != nil {
		context.WithField("err", err).Error("Patch UpdateOne failed")
		return err
	}

	if res.MatchedCount == 0 && res.ModifiedCount == 0 && res.UpsertedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (im *impl) CustomPatch(context ctx.Ctx, table domain.Table, selector, update bson.M, upsert bool) error {
	defer slowLog(context, table, "customupdate", selector)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table":    table,
		"selector": selector,
		"update":   update,
	})

	opts := options.Update().SetUpsert(upsert)
	res, err := im.coll(table).UpdateOne(context, selector, update, opts)
	if err != nil {
		context.WithField("err", err).Error("CustomPatch UpdateOne failed")
		return err
	}

	// a zero-match non-upsert write means the selector raced against a
	// concurrent update; callers treat this as a conflict signal
	if res.MatchedCount == 0 && res.ModifiedCount == 0 && res.UpsertedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (im *impl) RunWithTransaction(context ctx.Ctx, run func(ctx.Ctx) error) error {
	acquired := false
	select {
	case <-context.Done():
	case <-im.txTokens:
		acquired = true
	}
	defer func() {
		if acquired {
			im.txTokens <- struct{}{}
		}
	}()

	// explain command is not supported inside a transaction
	if im.checkIndex {
		return run(context)
	}

	session, err := im.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context)

	fn := func(sessCtx mongo.SessionContext) (interface{}, error) {
		c := ctx.Ctx{
			Context: sessCtx,
			Logger:  context.Logger,
		}
		return nil, run(c)
	}
	_, err = session.WithTransaction(context, fn)
	return err
}

func slowLog(context ctx.Ctx, table domain.Table, action string, query interface{}) func() {
	start := time.Now()
	return func() {
		elapsedMs := time.Since(start).Milliseconds()
		if elapsedMs >= slowQueryThresholdMs {
			context.WithFields(log.Fields{
				"table":      table,
				"action":     action,
				"startTime":  start.Unix(),
				"durationMs": elapsedMs,
				"query":      query,
			}).Warn("mongo slowlog")
		}
	}
}

// checkQueryIndex refuses unindexed queries in environments that opt in.
// The explain output shape varies across server versions, so it falls
// back to a substring scan for COLLSCAN.
func (im *impl) checkQueryIndex(context ctx.Ctx, table domain.Table, action string, query bson.E) error {
	if !im.checkIndex {
		return nil
	}

	res := im.client.Database(im.client.DbName).RunCommand(context, bson.D{
		bson.E{
			Key: "explain",
			Value: bson.D{
				bson.E{Key: action, Value: string(table)},
				query,
			},
		},
		bson.E{Key: "verbosity", Value: "queryPlanner"},
	})

	var m bson.M
	if err := res.Decode(&m); err != nil {
		context.WithField("err", err).Warn("explain decode failed")
		return nil
	}

	if strings.Contains(fmt.Sprintf("%v", m), "COLLSCAN") {
		context.WithField("query", query).Warn("COLLSCAN")
		return ErrCollScan
	}
	return nil
}
