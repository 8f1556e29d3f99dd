// Package freetar is the tab library service: it imports scraped tabs,
// renders them transposed, exports ChordPro and manages favorites and
// setlists on top of a Storage backend.
package freetar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/himanishpuri/freetar/pkg/freetar/chordpro"
	"github.com/himanishpuri/freetar/pkg/freetar/diagram"
	"github.com/himanishpuri/freetar/pkg/freetar/tab"
	"github.com/himanishpuri/freetar/pkg/freetar/transpose"
	"github.com/himanishpuri/freetar/pkg/logger"
	"github.com/himanishpuri/freetar/pkg/models"
	"github.com/himanishpuri/freetar/pkg/utils"
)

// freetarService is the default implementation of the Service interface.
type freetarService struct {
	storage Storage
	log     Logger
	config  *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger().With("freetar")
	}

	var stor Storage
	var err error
	if cfg.Storage != nil {
		stor = cfg.Storage
	} else {
		stor, err = NewDatabaseStorage(cfg.DBDriver, cfg.DBDSN, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
	}

	return &freetarService{
		storage: stor,
		log:     cfg.Logger,
		config:  cfg,
	}, nil
}

// ImportTab assembles a scraped payload (flat or store document) and saves
// it. created is false when a tab with the same URL was already stored.
func (s *freetarService) ImportTab(ctx context.Context, payload []byte) (*models.TabRecord, bool, error) {
	detail, err := tab.Decode(payload)
	if err != nil {
		s.log.Warnf("Rejected tab payload: %v", err)
		return nil, false, err
	}
	s.log.Infof("Importing %s (%d chords)", detail, len(detail.Chords))

	id, created, err := s.storage.SaveTab(ctx, detail)
	if err != nil {
		return nil, false, fmt.Errorf("failed to save tab: %w", err)
	}
	if !created {
		s.log.Infof("Tab %s already stored as %s", detail.TabURL, id)
	}

	rec, err := s.storage.GetTab(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return rec, created, nil
}

func (s *freetarService) GetTab(ctx context.Context, id string) (*models.TabRecord, error) {
	return s.storage.GetTab(ctx, id)
}

func (s *freetarService) GetTabByURL(ctx context.Context, tabURL string) (*models.TabRecord, error) {
	return s.storage.GetTabByURL(ctx, utils.URLPath(tabURL))
}

func (s *freetarService) ListTabs(ctx context.Context) ([]models.TabRecord, error) {
	return s.storage.ListTabs(ctx)
}

func (s *freetarService) DeleteTab(ctx context.Context, id string) error {
	if err := s.storage.DeleteTab(ctx, id); err != nil {
		return err
	}
	s.log.Infof("Deleted tab %s", id)
	return nil
}

// RenderTab returns a stored tab with its chords shifted by the options'
// effective offset, plus text diagrams of its chords.
func (s *freetarService) RenderTab(ctx context.Context, id string, opts RenderOptions) (*RenderedTab, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	rec, err := s.storage.GetTab(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(rec, opts)
}

func (s *freetarService) render(rec *models.TabRecord, opts RenderOptions) (*RenderedTab, error) {
	detail := *rec.Detail
	offset := opts.Offset()
	html, err := transpose.HTML(detail.Tab, offset, s.config.Spelling)
	if err != nil {
		return nil, models.WrapError(models.KindInvalidPayload, err, "rendering tab %s", rec.ID)
	}
	detail.Tab = html

	out := &RenderedTab{
		ID:        rec.ID,
		Detail:    &detail,
		Transpose: opts.Transpose,
		Capo:      opts.Capo,
		Offset:    offset,
	}
	for _, name := range diagram.Names(detail.Chords) {
		for i, v := range detail.Chords[name] {
			var fingers []string
			if i < len(detail.FingersForStrings[name]) {
				fingers = detail.FingersForStrings[name][i]
			}
			out.Diagrams = append(out.Diagrams, diagram.Render(name, v, fingers))
		}
	}
	return out, nil
}

// ExportChordPro encodes a stored tab as a ChordPro document.
func (s *freetarService) ExportChordPro(ctx context.Context, id string, opts RenderOptions) (*ChordProExport, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	rec, err := s.storage.GetTab(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := chordpro.Encode(rec.Detail, opts.Offset(), s.config.Spelling)
	if err != nil {
		return nil, err
	}
	return &ChordProExport{
		Filename: chordpro.Filename(rec.Detail.ArtistName, rec.Detail.SongName),
		Content:  content,
	}, nil
}

// ImportChordPro parses ChordPro text, transposing it first when the
// options ask for an offset.
func (s *freetarService) ImportChordPro(text string, opts RenderOptions) (*ChordProImport, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, models.NewError(models.KindInvalidPayload, "empty ChordPro document")
	}
	text = chordpro.Transpose(text, opts.Offset(), s.config.Spelling)
	return &ChordProImport{Document: chordpro.Parse(text), HTML: chordpro.ToHTML(text)}, nil
}

func (s *freetarService) AddFavorite(ctx context.Context, fav models.FavoriteTab) error {
	fav.TabURL = utils.URLPath(fav.TabURL)
	return s.storage.AddFavorite(ctx, fav)
}

// FavoriteTab stores the favorites entry for an imported tab.
func (s *freetarService) FavoriteTab(ctx context.Context, id string) (*models.FavoriteTab, error) {
	rec, err := s.storage.GetTab(ctx, id)
	if err != nil {
		return nil, err
	}
	fav := models.FavoriteTab{
		ArtistName: rec.Detail.ArtistName,
		Song:       rec.Detail.SongName,
		Type:       rec.Detail.Type,
		Rating:     rec.Detail.Rating,
		TabURL:     rec.Detail.TabURL,
	}
	if err := s.storage.AddFavorite(ctx, fav); err != nil {
		return nil, err
	}
	return &fav, nil
}

func (s *freetarService) RemoveFavorite(ctx context.Context, tabURL string) error {
	return s.storage.RemoveFavorite(ctx, utils.URLPath(tabURL))
}

func (s *freetarService) ListFavorites(ctx context.Context) (models.Favorites, error) {
	return s.storage.ListFavorites(ctx)
}

// ExportFavorites returns the favorites as the JSON document written to
// freetar-favorites.json.
func (s *freetarService) ExportFavorites(ctx context.Context) ([]byte, error) {
	favs, err := s.storage.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(favs, "", "  ")
}

// ImportFavorites merges an exported favorites document into the store.
func (s *freetarService) ImportFavorites(ctx context.Context, data []byte) (int, error) {
	var favs models.Favorites
	if err := json.Unmarshal(data, &favs); err != nil {
		return 0, models.WrapError(models.KindInvalidPayload, err, "decoding favorites")
	}
	normalised := make(models.Favorites, len(favs))
	for key, fav := range favs {
		if fav.TabURL == "" {
			fav.TabURL = key
		}
		fav.TabURL = utils.URLPath(fav.TabURL)
		normalised[fav.TabURL] = fav
	}
	n, err := s.storage.ImportFavorites(ctx, normalised)
	if err != nil {
		return 0, err
	}
	s.log.Infof("Imported %d favorites", n)
	return n, nil
}

func (s *freetarService) CreateSetlist(ctx context.Context, name string, description *string) (*models.Setlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewError(models.KindInvalidArgument, "setlist name is required")
	}
	return s.storage.CreateSetlist(ctx, name, description)
}

func (s *freetarService) ListSetlists(ctx context.Context) ([]models.Setlist, error) {
	return s.storage.ListSetlists(ctx)
}

func (s *freetarService) GetSetlist(ctx context.Context, id string) (*models.SetlistWithItems, error) {
	return s.storage.GetSetlist(ctx, id)
}

func (s *freetarService) UpdateSetlist(ctx context.Context, id string, name, description *string) (*models.Setlist, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, models.NewError(models.KindInvalidArgument, "setlist name is required")
		}
		name = &trimmed
	}
	return s.storage.UpdateSetlist(ctx, id, name, description)
}

func (s *freetarService) DeleteSetlist(ctx context.Context, id string) error {
	return s.storage.DeleteSetlist(ctx, id)
}

// AddToSetlist appends an entry to a setlist.
func (s *freetarService) AddToSetlist(ctx context.Context, setlistID string, item models.SetlistItem) (*models.SetlistItem, error) {
	if item.TabURL == "" {
		return nil, models.NewError(models.KindInvalidArgument, "setlist item needs a tab_url")
	}
	if err := validateOptions(RenderOptions{Transpose: item.Transpose, Capo: item.Capo}); err != nil {
		return nil, err
	}
	item.TabURL = utils.URLPath(item.TabURL)
	return s.storage.AddItem(ctx, setlistID, item)
}

// AddTabToSetlist appends an imported tab to a setlist.
func (s *freetarService) AddTabToSetlist(ctx context.Context, setlistID, tabID string, notes *string) (*models.SetlistItem, error) {
	rec, err := s.storage.GetTab(ctx, tabID)
	if err != nil {
		return nil, err
	}
	return s.AddToSetlist(ctx, setlistID, models.SetlistItem{
		ArtistName: rec.Detail.ArtistName,
		SongName:   rec.Detail.SongName,
		Type:       rec.Detail.Type,
		Rating:     rec.Detail.Rating,
		TabURL:     rec.Detail.TabURL,
		Notes:      notes,
	})
}

func (s *freetarService) RemoveFromSetlist(ctx context.Context, setlistID, itemID string) error {
	return s.storage.RemoveItem(ctx, setlistID, itemID)
}

func (s *freetarService) ReorderSetlist(ctx context.Context, setlistID string, itemIDs []string) error {
	seen := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		if seen[id] {
			return models.NewError(models.KindInvalidArgument, "item %s listed twice", id)
		}
		seen[id] = true
	}
	return s.storage.ReorderItems(ctx, setlistID, itemIDs)
}

func (s *freetarService) UpdateSetlistItem(ctx context.Context, setlistID, itemID string, upd models.SetlistItemUpdate) (*models.SetlistItem, error) {
	opts := RenderOptions{}
	if upd.Transpose != nil {
		opts.Transpose = *upd.Transpose
	}
	if upd.Capo != nil {
		opts.Capo = *upd.Capo
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return s.storage.UpdateItem(ctx, setlistID, itemID, upd)
}

// ShareSetlist issues a new share token for a setlist, replacing any
// earlier one.
func (s *freetarService) ShareSetlist(ctx context.Context, id string) (string, error) {
	token := utils.NewShareToken()
	if err := s.storage.SetShareToken(ctx, id, &token); err != nil {
		return "", err
	}
	s.log.Infof("Shared setlist %s", id)
	return token, nil
}

func (s *freetarService) UnshareSetlist(ctx context.Context, id string) error {
	return s.storage.SetShareToken(ctx, id, nil)
}

func (s *freetarService) GetSharedSetlist(ctx context.Context, token string) (*models.SetlistWithItems, error) {
	return s.storage.GetSetlistByShareToken(ctx, token)
}

// StageView resolves every item of a setlist to its stored tab, rendered
// with the item's saved transpose and capo.
func (s *freetarService) StageView(ctx context.Context, setlistID string) (*StageSetlist, error) {
	sl, err := s.storage.GetSetlist(ctx, setlistID)
	if err != nil {
		return nil, err
	}
	return s.stage(ctx, sl)
}

func (s *freetarService) SharedStageView(ctx context.Context, token string) (*StageSetlist, error) {
	sl, err := s.storage.GetSetlistByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.stage(ctx, sl)
}

func (s *freetarService) stage(ctx context.Context, sl *models.SetlistWithItems) (*StageSetlist, error) {
	out := &StageSetlist{Setlist: sl.Setlist, Songs: make([]StageSong, 0, len(sl.Items))}
	for _, item := range sl.Items {
		song := StageSong{Item: item}
		rec, err := s.storage.GetTabByURL(ctx, item.TabURL)
		switch {
		case err == nil:
			song.Tab, err = s.render(rec, RenderOptions{Transpose: item.Transpose, Capo: item.Capo})
			if err != nil {
				return nil, err
			}
		case errors.Is(err, models.ErrNotFound):
			s.log.Warnf("Setlist %s: tab %s is not imported", sl.ID, item.TabURL)
		default:
			return nil, err
		}
		out.Songs = append(out.Songs, song)
	}
	return out, nil
}

func (s *freetarService) Close() error {
	return s.storage.Close()
}

func validateOptions(opts RenderOptions) error {
	if opts.Transpose < -MaxTranspose || opts.Transpose > MaxTranspose {
		return models.NewError(models.KindInvalidArgument, "transpose %d out of range [-%d,%d]", opts.Transpose, MaxTranspose, MaxTranspose)
	}
	if opts.Capo < 0 || opts.Capo > MaxCapo {
		return models.NewError(models.KindInvalidArgument, "capo %d out of range [0,%d]", opts.Capo, MaxCapo)
	}
	return nil
}
