// Package store holds the record collections behind the HTTP API.
//
// Every entity is kept in a RecordStore. The memory driver is the default and
// keeps data for the lifetime of the process; the gorm driver persists it.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/maddreams/cleaning-site/models"
)

var ErrNotFound = errors.New("record not found")

type RecordStore[T any] interface {
	Create(ctx context.Context, rec T) (T, error)
	List(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, id string) error
}

// recordPtr lets the drivers hold values of T while calling the pointer methods.
type recordPtr[T any] interface {
	*T
	models.Record
}

type options struct {
	newestFirst bool
	now         func() time.Time
}

type Option func(*options)

// NewestFirst makes List return records by creation time, latest first.
func NewestFirst() Option {
	return func(o *options) { o.newestFirst = true }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// sortNewestFirst orders recs by creation time descending. recs must be in
// insertion order; equal timestamps keep the later insertion first.
func sortNewestFirst[T any, PT recordPtr[T]](recs []T) {
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return PT(&recs[i]).Created().After(PT(&recs[j]).Created())
	})
}
