//go:build !js && !wasm
// +build !js,!wasm

package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/himanishpuri/freetar/pkg/models"
)

// AddFavorite stores fav keyed by its tab URL, replacing an earlier entry.
func (c *DBClient) AddFavorite(ctx context.Context, fav models.FavoriteTab) error {
	if err := c.ready(); err != nil {
		return err
	}
	if fav.TabURL == "" {
		return models.NewError(models.KindInvalidArgument, "favorite has no tab_url")
	}
	return upsertFavorite(c.DB.WithContext(ctx), fav)
}

func upsertFavorite(db *gorm.DB, fav models.FavoriteTab) error {
	row := Favorite{
		TabURL:     fav.TabURL,
		ArtistName: fav.ArtistName,
		Song:       fav.Song,
		Type:       fav.Type,
		Rating:     fav.Rating,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tab_url"}},
		DoUpdates: clause.AssignmentColumns([]string{"artist_name", "song", "type", "rating"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("saving favorite: %w", err)
	}
	return nil
}

func (c *DBClient) RemoveFavorite(ctx context.Context, tabURL string) error {
	if err := c.ready(); err != nil {
		return err
	}
	res := c.DB.WithContext(ctx).Where("tab_url = ?", tabURL).Delete(&Favorite{})
	if res.Error != nil {
		return fmt.Errorf("deleting favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewError(models.KindNotFound, "favorite %s not found", tabURL)
	}
	return nil
}

func (c *DBClient) IsFavorite(ctx context.Context, tabURL string) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	var count int64
	if err := c.DB.WithContext(ctx).Model(&Favorite{}).Where("tab_url = ?", tabURL).Count(&count).Error; err != nil {
		return false, fmt.Errorf("querying favorite: %w", err)
	}
	return count > 0, nil
}

func (c *DBClient) ListFavorites(ctx context.Context) (models.Favorites, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var rows []Favorite
	if err := c.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	out := make(models.Favorites, len(rows))
	for i := range rows {
		out[rows[i].TabURL] = rows[i].model()
	}
	return out, nil
}

// ImportFavorites merges favs into the store in one transaction and returns
// how many entries were written.
func (c *DBClient) ImportFavorites(ctx context.Context, favs models.Favorites) (int, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}
	n := 0
	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, fav := range favs {
			if fav.TabURL == "" {
				fav.TabURL = key
			}
			if fav.TabURL == "" {
				continue
			}
			if err := upsertFavorite(tx, fav); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
