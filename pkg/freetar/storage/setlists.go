//go:build !js && !wasm
// +build !js,!wasm

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/himanishpuri/freetar/pkg/models"
	"github.com/himanishpuri/freetar/pkg/utils"
)

func (c *DBClient) CreateSetlist(ctx context.Context, name string, description *string) (*models.Setlist, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	row := Setlist{ID: utils.NewID(), Name: name, Description: emptyToNil(description)}
	if err := c.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("creating setlist: %w", err)
	}
	out := row.model()
	return &out, nil
}

// ListSetlists returns every setlist, most recently updated first.
func (c *DBClient) ListSetlists(ctx context.Context) ([]models.Setlist, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var rows []Setlist
	if err := c.DB.WithContext(ctx).Order("updated_at DESC, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing setlists: %w", err)
	}
	out := make([]models.Setlist, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].model())
	}
	return out, nil
}

// GetSetlist returns a setlist with its items in position order.
func (c *DBClient) GetSetlist(ctx context.Context, id string) (*models.SetlistWithItems, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.loadSetlist(c.DB.WithContext(ctx), "id = ?", id)
}

// GetSetlistByShareToken resolves a shared setlist link.
func (c *DBClient) GetSetlistByShareToken(ctx context.Context, token string) (*models.SetlistWithItems, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, models.NewError(models.KindNotFound, "shared setlist not found")
	}
	return c.loadSetlist(c.DB.WithContext(ctx), "share_token = ?", token)
}

func (c *DBClient) loadSetlist(db *gorm.DB, query, arg string) (*models.SetlistWithItems, error) {
	var row Setlist
	err := db.Where(query, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewError(models.KindNotFound, "setlist %s not found", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("querying setlist: %w", err)
	}

	var items []SetlistItem
	if err := db.Where("setlist_id = ?", row.ID).Order("position ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("querying setlist items: %w", err)
	}
	out := &models.SetlistWithItems{Setlist: row.model(), Items: make([]models.SetlistItem, 0, len(items))}
	for i := range items {
		out.Items = append(out.Items, items[i].model())
	}
	return out, nil
}

// UpdateSetlist changes the name and/or description; nil leaves a field as
// it is and an empty description clears it.
func (c *DBClient) UpdateSetlist(ctx context.Context, id string, name, description *string) (*models.Setlist, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	updates := map[string]any{"updated_at": time.Now()}
	if name != nil {
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = emptyToNil(description)
	}
	if err := c.updateSetlist(c.DB.WithContext(ctx), id, updates); err != nil {
		return nil, err
	}
	sl, err := c.GetSetlist(ctx, id)
	if err != nil {
		return nil, err
	}
	return &sl.Setlist, nil
}

func (c *DBClient) updateSetlist(db *gorm.DB, id string, updates map[string]any) error {
	res := db.Model(&Setlist{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("updating setlist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewError(models.KindNotFound, "setlist %s not found", id)
	}
	return nil
}

// DeleteSetlist removes a setlist and all of its items.
func (c *DBClient) DeleteSetlist(ctx context.Context, id string) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("setlist_id = ?", id).Delete(&SetlistItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Setlist{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewError(models.KindNotFound, "setlist %s not found", id)
		}
		return nil
	})
}

// SetShareToken stores token on the setlist; nil revokes sharing.
func (c *DBClient) SetShareToken(ctx context.Context, id string, token *string) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.updateSetlist(c.DB.WithContext(ctx), id, map[string]any{"share_token": token, "updated_at": time.Now()})
}

// AddItem appends item at the end of the setlist.
func (c *DBClient) AddItem(ctx context.Context, setlistID string, item models.SetlistItem) (*models.SetlistItem, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	row := SetlistItem{
		ID:         utils.NewID(),
		SetlistID:  setlistID,
		ArtistName: item.ArtistName,
		SongName:   item.SongName,
		Type:       item.Type,
		Rating:     item.Rating,
		TabURL:     item.TabURL,
		Notes:      emptyToNil(item.Notes),
		Transpose:  item.Transpose,
		Capo:       item.Capo,
	}
	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireSetlist(tx, setlistID); err != nil {
			return err
		}
		var last SetlistItem
		err := tx.Select("position").Where("setlist_id = ?", setlistID).Order("position DESC").First(&last).Error
		switch {
		case err == nil:
			row.Position = last.Position + 1
		case errors.Is(err, gorm.ErrRecordNotFound):
			row.Position = 0
		default:
			return fmt.Errorf("querying last position: %w", err)
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("creating setlist item: %w", err)
		}
		return touch(tx, setlistID)
	})
	if err != nil {
		return nil, err
	}
	out := row.model()
	return &out, nil
}

func (c *DBClient) RemoveItem(ctx context.Context, setlistID, itemID string) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND setlist_id = ?", itemID, setlistID).Delete(&SetlistItem{})
		if res.Error != nil {
			return fmt.Errorf("deleting setlist item: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewError(models.KindNotFound, "setlist item %s not found", itemID)
		}
		return touch(tx, setlistID)
	})
}

// ReorderItems assigns positions 0..n-1 following itemIDs. Every id must
// belong to the setlist.
func (c *DBClient) ReorderItems(ctx context.Context, setlistID string, itemIDs []string) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireSetlist(tx, setlistID); err != nil {
			return err
		}
		for pos, id := range itemIDs {
			res := tx.Model(&SetlistItem{}).Where("id = ? AND setlist_id = ?", id, setlistID).Update("position", pos)
			if res.Error != nil {
				return fmt.Errorf("moving item %s: %w", id, res.Error)
			}
			if res.RowsAffected == 0 {
				return models.NewError(models.KindNotFound, "setlist item %s not found", id)
			}
		}
		return touch(tx, setlistID)
	})
}

// UpdateItem applies the non-nil fields of upd. An empty note clears it.
func (c *DBClient) UpdateItem(ctx context.Context, setlistID, itemID string, upd models.SetlistItemUpdate) (*models.SetlistItem, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if upd.Notes != nil {
		updates["notes"] = emptyToNil(upd.Notes)
	}
	if upd.Transpose != nil {
		updates["transpose"] = *upd.Transpose
	}
	if upd.Capo != nil {
		updates["capo"] = *upd.Capo
	}

	var row SetlistItem
	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND setlist_id = ?", itemID, setlistID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewError(models.KindNotFound, "setlist item %s not found", itemID)
		}
		if err != nil {
			return fmt.Errorf("querying setlist item: %w", err)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			return fmt.Errorf("updating setlist item: %w", err)
		}
		var fresh SetlistItem
		if err := tx.Where("id = ?", itemID).First(&fresh).Error; err != nil {
			return err
		}
		row = fresh
		return touch(tx, setlistID)
	})
	if err != nil {
		return nil, err
	}
	out := row.model()
	return &out, nil
}

func requireSetlist(tx *gorm.DB, id string) error {
	var count int64
	if err := tx.Model(&Setlist{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("querying setlist: %w", err)
	}
	if count == 0 {
		return models.NewError(models.KindNotFound, "setlist %s not found", id)
	}
	return nil
}

func touch(tx *gorm.DB, id string) error {
	return tx.Model(&Setlist{}).Where("id = ?", id).Update("updated_at", time.Now()).Error
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
