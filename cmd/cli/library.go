//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/himanishpuri/freetar/pkg/freetar"
	"github.com/himanishpuri/freetar/pkg/models"
	"github.com/himanishpuri/freetar/pkg/utils"
)

func (c *cli) favorites(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "add":
		if len(rest) != 1 {
			return errUsage
		}
		fav, err := c.svc.FavoriteTab(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "⭐ Added %s - %s to favorites\n", fav.ArtistName, fav.Song)

	case "rm":
		if len(rest) != 1 {
			return errUsage
		}
		if err := c.svc.RemoveFavorite(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "✅ Removed %s from favorites\n", rest[0])

	case "list":
		favs, err := c.svc.ListFavorites(ctx)
		if err != nil {
			return err
		}
		if len(favs) == 0 {
			fmt.Fprintln(c.out, "📭 No favorites yet")
			return nil
		}
		keys := make([]string, 0, len(favs))
		for k := range favs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(c.out, "⭐ %s favorite(s):\n\n", humanize.Comma(int64(len(favs))))
		for _, k := range keys {
			f := favs[k]
			fmt.Fprintf(c.out, "  %s - %s (%s) %.1f/5\n", f.ArtistName, f.Song, f.Type, f.Rating)
			fmt.Fprintf(c.out, "    %s\n", f.TabURL)
		}

	case "export":
		fs := c.flagSet("fav export")
		dir := fs.String("out", ".", "Directory to write "+freetar.FavoritesFile+" to")
		if pos, err := parseArgs(fs, rest); err != nil || len(pos) != 0 {
			return errUsage
		}
		data, err := c.svc.ExportFavorites(ctx)
		if err != nil {
			return err
		}
		path, err := utils.WriteFile(*dir, freetar.FavoritesFile, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "✅ Wrote %s (%s)\n", path, humanize.Bytes(uint64(len(data))))

	case "import":
		if len(rest) != 1 {
			return errUsage
		}
		data, err := c.readInput(rest[0])
		if err != nil {
			return err
		}
		n, err := c.svc.ImportFavorites(ctx, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "✅ Imported %s favorite(s)\n", humanize.Comma(int64(n)))

	default:
		return fmt.Errorf("unknown fav command: %s", sub)
	}
	return nil
}

func (c *cli) setlists(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "create":
		fs := c.flagSet("setlist create")
		desc := fs.String("desc", "", "Description")
		pos, err := parseArgs(fs, rest)
		if err != nil || len(pos) != 1 {
			return errUsage
		}
		var description *string
		if *desc != "" {
			description = desc
		}
		sl, err := c.svc.CreateSetlist(ctx, pos[0], description)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "✅ Created setlist %q (ID: %s)\n", sl.Name, sl.ID)

	case "list":
		lists, err := c.svc.ListSetlists(ctx)
		if err != nil {
			return err
		}
		if len(lists) == 0 {
			fmt.Fprintln(c.out, "📭 No setlists")
			return nil
		}
		for i, sl := range lists {
			shared := ""
			if sl.ShareToken != nil {
				shared = " [shared]"
			}
			fmt.Fprintf(c.out, "%d. %s%s (ID: %s) updated %s\n", i+1, sl.Name, shared, sl.ID, humanize.Time(sl.UpdatedAt))
		}

	case "show":
		if len(rest) != 1 {
			return errUsage
		}
		sl, err := c.svc.GetSetlist(ctx, rest[0])
		if err != nil {
			return err
		}
		c.printSetlist(sl)

	case "delete":
		if len(rest) != 1 {
			return errUsage
		}
		if err := c.svc.DeleteSetlist(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "✅ Deleted setlist %s\n", rest[0])

	case "add":
		fs := c.flagSet("setlist add")
		notes := fs.String("notes", "", "Performance notes")
		pos, err := parseArgs(fs, rest)
		if err != nil || len(pos) != 2 {
			return errUsage
		}
		var n *string
		if *notes != "" {
			n = notes
		}
		item, err := c.svc.AddTabToSetlist(ctx, pos[0], pos[1], n)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "✅ Added %s - %s as %s song (item %s)\n",
			item.ArtistName, item.SongName, humanize.Ordinal(item.Position+1), item.ID)

	case "rm":
		if len(rest) != 2 {
			return errUsage
		}
		if err := c.svc.RemoveFromSetlist(ctx, rest[0], rest[1]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "✅ Removed item %s\n", rest[1])

	case "order":
		if len(rest) < 2 {
			return errUsage
		}
		if err := c.svc.ReorderSetlist(ctx, rest[0], rest[1:]); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "✅ Setlist reordered")

	case "set":
		fs := c.flagSet("setlist set")
		transpose := fs.Int("transpose", 0, "Saved transpose")
		capo := fs.Int("capo", 0, "Saved capo")
		notes := fs.String("notes", "", "Performance notes (empty clears)")
		pos, err := parseArgs(fs, rest)
		if err != nil || len(pos) != 2 {
			return errUsage
		}
		var upd models.SetlistItemUpdate
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "transpose":
				upd.Transpose = transpose
			case "capo":
				upd.Capo = capo
			case "notes":
				upd.Notes = notes
			}
		})
		item, err := c.svc.UpdateSetlistItem(ctx, pos[0], pos[1], upd)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "✅ %s: transpose %+d, capo %d\n", item.SongName, item.Transpose, item.Capo)

	case "share":
		if len(rest) != 1 {
			return errUsage
		}
		token, err := c.svc.ShareSetlist(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "🔗 Share token: %s\n", token)

	case "unshare":
		if len(rest) != 1 {
			return errUsage
		}
		if err := c.svc.UnshareSetlist(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "✅ Setlist is no longer shared")

	case "stage":
		if len(rest) != 1 {
			return errUsage
		}
		stage, err := c.svc.StageView(ctx, rest[0])
		if err != nil {
			return err
		}
		c.printStage(stage)

	default:
		return fmt.Errorf("unknown setlist command: %s", sub)
	}
	return nil
}

func (c *cli) printSetlist(sl *models.SetlistWithItems) {
	fmt.Fprintf(c.out, "🎤 %s (%d songs)\n", sl.Name, len(sl.Items))
	if sl.Description != nil {
		fmt.Fprintf(c.out, "   %s\n", *sl.Description)
	}
	fmt.Fprintln(c.out)
	for _, item := range sl.Items {
		fmt.Fprintf(c.out, "%d. %s - %s (item %s)\n", item.Position+1, item.ArtistName, item.SongName, item.ID)
		if item.Transpose != 0 || item.Capo != 0 {
			fmt.Fprintf(c.out, "   transpose %+d, capo %d\n", item.Transpose, item.Capo)
		}
		if item.Notes != nil {
			fmt.Fprintf(c.out, "   📝 %s\n", *item.Notes)
		}
	}
}

func (c *cli) printStage(stage *freetar.StageSetlist) {
	fmt.Fprintf(c.out, "🎤 %s\n", stage.Name)
	for i, song := range stage.Songs {
		fmt.Fprintf(c.out, "\n%d. %s - %s\n", i+1, song.Item.ArtistName, song.Item.SongName)
		if song.Tab == nil {
			fmt.Fprintln(c.out, "   (tab not imported)")
			continue
		}
		if song.Tab.Offset != 0 {
			fmt.Fprintf(c.out, "   transposed %+d semitones\n", song.Tab.Offset)
		}
		if song.Item.Notes != nil {
			fmt.Fprintf(c.out, "   📝 %s\n", *song.Item.Notes)
		}
	}
}
