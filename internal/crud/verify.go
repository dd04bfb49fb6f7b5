package crud

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// LookupOptions tunes an existence lookup.
type LookupOptions struct {
	// Column is the lookup column; defaults to the primary key "id".
	Column string
	// Preloads names association collections to eager-load on the result.
	Preloads []string
	// IgnoreNotFound returns absence (nil or an empty slice) instead of a
	// not-found error.
	IgnoreNotFound bool
}

func (o LookupOptions) column() string {
	if o.Column == "" {
		return "id"
	}
	return o.Column
}

// VerifyExistence fetches the record whose lookup column equals id, or fails
// with a not-found error naming the entity and id.
func VerifyExistence[T any](ctx context.Context, db *gorm.DB, entity string, id any, opts LookupOptions) (*T, error) {
	q := db.WithContext(ctx)
	for _, preload := range opts.Preloads {
		q = q.Preload(preload)
	}
	var record T
	err := q.Where(fmt.Sprintf("%s = ?", opts.column()), id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if opts.IgnoreNotFound {
			return nil, nil
		}
		return nil, NewNotFound(entity, id)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// VerifyExistenceAll fetches every record whose lookup column matches one of
// ids. It fails with a not-found error only when ids is non-empty and nothing
// matches; partial matches are returned as-is for the caller to validate.
func VerifyExistenceAll[T any, K comparable](ctx context.Context, db *gorm.DB, entity string, ids []K, opts LookupOptions) ([]T, error) {
	records := []T{}
	if len(ids) == 0 {
		return records, nil
	}
	q := db.WithContext(ctx)
	for _, preload := range opts.Preloads {
		q = q.Preload(preload)
	}
	if err := q.Where(fmt.Sprintf("%s IN ?", opts.column()), ids).Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 && !opts.IgnoreNotFound {
		return nil, NewNotFound(entity, ids)
	}
	return records, nil
}
