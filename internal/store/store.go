// Package store persists action items with GORM.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zulandar/intake/internal/action"
	"github.com/zulandar/intake/internal/models"
	"gorm.io/gorm"
)

// Actions is a GORM-backed action.Repository.
type Actions struct {
	db *gorm.DB
}

// NewActions returns a repository over db. The actions table must exist.
func NewActions(db *gorm.DB) *Actions {
	return &Actions{db: db}
}

var _ action.Repository = (*Actions)(nil)

// List returns the items of an analysis ordered by creation time ascending.
func (r *Actions) List(ctx context.Context, analysisID string) ([]action.Item, error) {
	var rows []models.Action
	if err := r.db.WithContext(ctx).
		Where("analysis_id = ?", analysisID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: list %s: %w", analysisID, err)
	}

	items := make([]action.Item, 0, len(rows))
	for _, row := range rows {
		it, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("store: list %s: %w", analysisID, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// FindByID returns one item or action.ErrNotFound.
func (r *Actions) FindByID(ctx context.Context, analysisID, id string) (*action.Item, error) {
	var row models.Action
	if err := r.db.WithContext(ctx).
		Where("analysis_id = ? AND id = ?", analysisID, id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, action.ErrNotFound
		}
		return nil, fmt.Errorf("store: get %s/%s: %w", analysisID, id, err)
	}
	it, err := fromRow(row)
	if err != nil {
		return nil, fmt.Errorf("store: get %s/%s: %w", analysisID, id, err)
	}
	return &it, nil
}

// Create inserts a new item. The caller guarantees the id is unique.
func (r *Actions) Create(ctx context.Context, item action.Item) error {
	row, err := toRow(item)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", item.ID, err)
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("store: create %s: %w", item.ID, err)
	}
	return nil
}

// Update replaces every mutable column of the stored item.
func (r *Actions) Update(ctx context.Context, item action.Item) error {
	row, err := toRow(item)
	if err != nil {
		return fmt.Errorf("store: update %s: %w", item.ID, err)
	}
	if err := r.db.WithContext(ctx).
		Model(&row).
		Select("*").
		Omit("analysis_id", "id", "created_at", "created_by").
		Updates(&row).Error; err != nil {
		return fmt.Errorf("store: update %s: %w", item.ID, err)
	}
	return nil
}

// Delete removes an item. Deleting a missing item is not an error.
func (r *Actions) Delete(ctx context.Context, analysisID, id string) error {
	if err := r.db.WithContext(ctx).
		Where("analysis_id = ? AND id = ?", analysisID, id).
		Delete(&models.Action{}).Error; err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", analysisID, id, err)
	}
	return nil
}

// Atomic runs fn inside a database transaction.
func (r *Actions) Atomic(ctx context.Context, fn func(action.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Actions{db: tx})
	})
}
