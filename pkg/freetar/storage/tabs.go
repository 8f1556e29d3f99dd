//go:build !js && !wasm
// +build !js,!wasm

package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/himanishpuri/freetar/pkg/models"
	"github.com/himanishpuri/freetar/pkg/utils"
)

// SaveTab stores detail once per tab URL and returns the row id. Saving a
// URL that already exists returns the existing id; created is false then.
func (c *DBClient) SaveTab(ctx context.Context, detail *models.SongDetail) (id string, created bool, err error) {
	if err := c.ready(); err != nil {
		return "", false, err
	}
	if detail == nil || detail.TabURL == "" {
		return "", false, models.NewError(models.KindInvalidArgument, "tab has no tab_url")
	}
	db := c.DB.WithContext(ctx)

	var existing Tab
	err = db.Select("id").Where("tab_url = ?", detail.TabURL).First(&existing).Error
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, fmt.Errorf("querying existing tab: %w", err)
	}

	row, err := newTabRow(utils.NewID(), detail)
	if err != nil {
		return "", false, err
	}
	if err := db.Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			if fetchErr := db.Select("id").Where("tab_url = ?", detail.TabURL).First(&existing).Error; fetchErr != nil {
				return "", false, fmt.Errorf("fetching tab after constraint violation: %w", fetchErr)
			}
			return existing.ID, false, nil
		}
		return "", false, fmt.Errorf("creating tab: %w", err)
	}
	return row.ID, true, nil
}

func (c *DBClient) GetTab(ctx context.Context, id string) (*models.TabRecord, error) {
	return c.findTab(ctx, "id = ?", id)
}

func (c *DBClient) GetTabByURL(ctx context.Context, tabURL string) (*models.TabRecord, error) {
	return c.findTab(ctx, "tab_url = ?", tabURL)
}

func (c *DBClient) findTab(ctx context.Context, query string, arg string) (*models.TabRecord, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var row Tab
	err := c.DB.WithContext(ctx).Where(query, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewError(models.KindNotFound, "tab %s not found", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("querying tab: %w", err)
	}
	return row.record()
}

// ListTabs returns stored tabs, newest first.
func (c *DBClient) ListTabs(ctx context.Context) ([]models.TabRecord, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var rows []Tab
	if err := c.DB.WithContext(ctx).Order("created_at DESC, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing tabs: %w", err)
	}
	out := make([]models.TabRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].record()
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (c *DBClient) DeleteTab(ctx context.Context, id string) error {
	if err := c.ready(); err != nil {
		return err
	}
	res := c.DB.WithContext(ctx).Where("id = ?", id).Delete(&Tab{})
	if res.Error != nil {
		return fmt.Errorf("deleting tab: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewError(models.KindNotFound, "tab %s not found", id)
	}
	return nil
}

func (c *DBClient) CountTabs(ctx context.Context) (int, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	var count int64
	if err := c.DB.WithContext(ctx).Model(&Tab{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
