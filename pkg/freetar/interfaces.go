package freetar

import (
	"context"

	"github.com/himanishpuri/freetar/pkg/models"
)

type Service interface {
	ImportTab(ctx context.Context, payload []byte) (*models.TabRecord, bool, error)
	GetTab(ctx context.Context, id string) (*models.TabRecord, error)
	GetTabByURL(ctx context.Context, tabURL string) (*models.TabRecord, error)
	ListTabs(ctx context.Context) ([]models.TabRecord, error)
	DeleteTab(ctx context.Context, id string) error
	RenderTab(ctx context.Context, id string, opts RenderOptions) (*RenderedTab, error)
	ExportChordPro(ctx context.Context, id string, opts RenderOptions) (*ChordProExport, error)
	ImportChordPro(text string, opts RenderOptions) (*ChordProImport, error)

	AddFavorite(ctx context.Context, fav models.FavoriteTab) error
	FavoriteTab(ctx context.Context, id string) (*models.FavoriteTab, error)
	RemoveFavorite(ctx context.Context, tabURL string) error
	ListFavorites(ctx context.Context) (models.Favorites, error)
	ExportFavorites(ctx context.Context) ([]byte, error)
	ImportFavorites(ctx context.Context, data []byte) (int, error)

	CreateSetlist(ctx context.Context, name string, description *string) (*models.Setlist, error)
	ListSetlists(ctx context.Context) ([]models.Setlist, error)
	GetSetlist(ctx context.Context, id string) (*models.SetlistWithItems, error)
	UpdateSetlist(ctx context.Context, id string, name, description *string) (*models.Setlist, error)
	DeleteSetlist(ctx context.Context, id string) error
	AddToSetlist(ctx context.Context, setlistID string, item models.SetlistItem) (*models.SetlistItem, error)
	AddTabToSetlist(ctx context.Context, setlistID, tabID string, notes *string) (*models.SetlistItem, error)
	RemoveFromSetlist(ctx context.Context, setlistID, itemID string) error
	ReorderSetlist(ctx context.Context, setlistID string, itemIDs []string) error
	UpdateSetlistItem(ctx context.Context, setlistID, itemID string, upd models.SetlistItemUpdate) (*models.SetlistItem, error)
	ShareSetlist(ctx context.Context, id string) (string, error)
	UnshareSetlist(ctx context.Context, id string) error
	GetSharedSetlist(ctx context.Context, token string) (*models.SetlistWithItems, error)
	StageView(ctx context.Context, setlistID string) (*StageSetlist, error)
	SharedStageView(ctx context.Context, token string) (*StageSetlist, error)

	Close() error
}

// Storage is the persistence collaborator behind the service.
type Storage interface {
	SaveTab(ctx context.Context, detail *models.SongDetail) (string, bool, error)
	GetTab(ctx context.Context, id string) (*models.TabRecord, error)
	GetTabByURL(ctx context.Context, tabURL string) (*models.TabRecord, error)
	ListTabs(ctx context.Context) ([]models.TabRecord, error)
	DeleteTab(ctx context.Context, id string) error

	AddFavorite(ctx context.Context, fav models.FavoriteTab) error
	RemoveFavorite(ctx context.Context, tabURL string) error
	ListFavorites(ctx context.Context) (models.Favorites, error)
	ImportFavorites(ctx context.Context, favs models.Favorites) (int, error)

	CreateSetlist(ctx context.Context, name string, description *string) (*models.Setlist, error)
	ListSetlists(ctx context.Context) ([]models.Setlist, error)
	GetSetlist(ctx context.Context, id string) (*models.SetlistWithItems, error)
	GetSetlistByShareToken(ctx context.Context, token string) (*models.SetlistWithItems, error)
	UpdateSetlist(ctx context.Context, id string, name, description *string) (*models.Setlist, error)
	DeleteSetlist(ctx context.Context, id string) error
	SetShareToken(ctx context.Context, id string, token *string) error
	AddItem(ctx context.Context, setlistID string, item models.SetlistItem) (*models.SetlistItem, error)
	RemoveItem(ctx context.Context, setlistID, itemID string) error
	ReorderItems(ctx context.Context, setlistID string, itemIDs []string) error
	UpdateItem(ctx context.Context, setlistID, itemID string, upd models.SetlistItemUpdate) (*models.SetlistItem, error)

	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
