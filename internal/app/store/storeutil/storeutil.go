// internal/app/store/storeutil/storeutil.go
package storeutil

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewestFirst returns *options.FindOptions sorted by field descending with
// _id as the tie-break. A limit of 0 or less leaves the result unbounded.
func NewestFirst(field string, limit int64) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: field, Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}
