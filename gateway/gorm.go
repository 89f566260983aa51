package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GormCollection implements Collection on top of a gorm table.
type GormCollection[T any, PT Record[T]] struct {
	db *gorm.DB
}

func NewGormCollection[T any, PT Record[T]](db *gorm.DB) *GormCollection[T, PT] {
	return &GormCollection[T, PT]{db: db}
}

func (c *GormCollection[T, PT]) ListAll(ctx context.Context) ([]T, error) {
	var records []T
	if err := c.db.WithContext(ctx).Order("created_at desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func (c *GormCollection[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	var rec T
	err := c.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %q: %w", id, err)
	}
	return &rec, nil
}

func (c *GormCollection[T, PT]) Create(ctx context.Context, rec *T) (string, error) {
	if err := c.db.WithContext(ctx).Create(rec).Error; err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	return PT(rec).GetID(), nil
}

func (c *GormCollection[T, PT]) Update(ctx context.Context, id string, fields map[string]any) error {
	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["updated_at"] = time.Now()

	result := c.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("update record %q: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *GormCollection[T, PT]) Delete(ctx context.Context, id string) error {
	result := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("delete record %q: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
