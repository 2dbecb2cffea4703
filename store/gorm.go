package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore keeps records in a SQL table through gorm. Records are ordered by
// created_at, then by the seq column this store assigns on insert.
type GormStore[T any, PT recordPtr[T]] struct {
	db   *gorm.DB
	opts options
	mu   sync.Mutex
}

func NewGorm[T any, PT recordPtr[T]](db *gorm.DB, opts ...Option) *GormStore[T, PT] {
	return &GormStore[T, PT]{db: db, opts: buildOptions(opts)}
}

func (s *GormStore[T, PT]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	p := PT(&rec)
	if err := p.Validate(); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(PT(new(T))).Select("COALESCE(MAX(seq), 0)").Row().Scan(&last); err != nil {
			return err
		}
		p.SetSeq(last + 1)
		p.Assign(uuid.NewString(), s.opts.now())
		return tx.Create(p).Error
	})
	if err != nil {
		return zero, fmt.Errorf("create %T: %w", rec, err)
	}
	return rec, nil
}

func (s *GormStore[T, PT]) List(ctx context.Context) ([]T, error) {
	order := "created_at ASC, seq ASC"
	if s.opts.newestFirst {
		order = "created_at DESC, seq DESC"
	}

	out := make([]T, 0)
	if err := s.db.WithContext(ctx).Order(order).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list %T: %w", out, err)
	}
	return out, nil
}

func (s *GormStore[T, PT]) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(PT(new(T)), "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
