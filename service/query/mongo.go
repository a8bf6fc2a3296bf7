// Package query wraps the official mongo driver
// (https://godoc.org/go.mongodb.org/mongo-driver) behind the small
// interface the repositories depend on.
package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")

	// ErrCollScan is error for unindexed query
	ErrCollScan = fmt.Errorf("COLLSCAN is not allowed")
)

// Mongo abstracts the mongo layer.
type Mongo interface {
	// Insert inserts a new document to the table
	Insert(context ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne gets data from the table
	FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error

	// Count returns the number of matched entries in the table
	// https://docs.mongodb.com/manual/reference/method/db.collection.countDocuments
	Count(context ctx.Ctx, table domain.Table, selector interface{}) (n int, err error)

	// Search sorts by the `sort` argument ("timestamp" ascending,
	// "-timestamp" descending). With sort == "" the order of results is
	// whatever the server returns.
	Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// Remove removes one entry from the table.
	// Returns ErrNotFound if the selector matches no documents.
	Remove(context ctx.Ctx, table domain.Table, selector interface{}) error

	// RemoveAll removes every entry matching the selector from the table
	RemoveAll(context ctx.Ctx, table domain.Table, selector interface{}) (removedCnt int64, err error)

	// Patch $set-updates one entry.
	// Returns ErrNotFound if the selector matches no documents.
	Patch(context ctx.Ctx, table domain.Table, selector, update interface{}) error

	// CustomPatch updates one entry with a caller-built mongo update.
	// Returns ErrNotFound if upsert is false and the selector matches no
	// documents.
	CustomPatch(context ctx.Ctx, table domain.Table, selector, update bson.M, upsert bool) error

	RunWithTransaction(context ctx.Ctx, run func(ctx.Ctx) error) error
}
