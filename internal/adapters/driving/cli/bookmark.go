package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

var bookmarkCmd = &cobra.Command{
	Use:     "bookmark",
	Aliases: []string{"bm"},
	Short:   "Save and reopen catalog locations",
	Long: `Bookmarks give a name to a catalog location (its filters and page).

Examples:
  medmart bookmark save cheap --url '?custom_price=lte:100'
  medmart bookmark list
  medmart bookmark open cheap`,
}

var bookmarkSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Bookmark a location (the most recent one by default)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookmarkSave,
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks",
	Args:  cobra.NoArgs,
	RunE:  runBookmarkList,
}

var bookmarkOpenCmd = &cobra.Command{
	Use:   "open [name]",
	Short: "List services at a bookmarked location",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookmarkOpen,
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:     "remove [name]",
	Aliases: []string{"rm"},
	Short:   "Remove a bookmark",
	Args:    cobra.ExactArgs(1),
	RunE:    runBookmarkRemove,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently visited catalog locations",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	bookmarkSaveCmd.Flags().String("url", "", "query string to bookmark")
	historyCmd.Flags().IntP("limit", "n", 10, "maximum number of locations")

	bookmarkCmd.AddCommand(bookmarkSaveCmd, bookmarkListCmd, bookmarkOpenCmd, bookmarkRemoveCmd)
	rootCmd.AddCommand(bookmarkCmd, historyCmd)
}

func runBookmarkSave(cmd *cobra.Command, args []string) error {
	if bookmarkService == nil {
		return errors.New("bookmark service not configured")
	}
	ctx := commandContext(cmd)

	var query domain.QueryParameterSet
	if raw, _ := cmd.Flags().GetString("url"); raw != "" {
		query = domain.ParseQueryString(raw)
	} else {
		recent, err := bookmarkService.History(ctx, 1)
		if err != nil {
			return fmt.Errorf("loading history: %w", err)
		}
		if len(recent) == 0 {
			return errors.New("nothing to bookmark: no location visited yet, pass --url")
		}
		query = recent[0].Query
	}

	b, err := bookmarkService.Save(ctx, args[0], query)
	if err != nil {
		return userError("saving bookmark", err)
	}
	cmd.Printf("Saved %s -> %s\n", b.Name, b.Query.String())
	return nil
}

func runBookmarkList(cmd *cobra.Command, _ []string) error {
	if bookmarkService == nil {
		return errors.New("bookmark service not configured")
	}

	bookmarks, err := bookmarkService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("listing bookmarks: %w", err)
	}
	if len(bookmarks) == 0 {
		cmd.Println("No bookmarks saved.")
		return nil
	}
	for _, b := range bookmarks {
		cmd.Printf("  %-20s %s\n", b.Name, b.Query.String())
	}
	return nil
}

func runBookmarkOpen(cmd *cobra.Command, args []string) error {
	if bookmarkService == nil || catalogService == nil || routerService == nil {
		return errors.New("bookmark service not configured")
	}

	b, err := bookmarkService.Get(commandContext(cmd), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no bookmark named %q", args[0])
	}
	if err != nil {
		return err
	}
	return showCatalog(cmd, b.Query, false)
}

func runBookmarkRemove(cmd *cobra.Command, args []string) error {
	if bookmarkService == nil {
		return errors.New("bookmark service not configured")
	}

	err := bookmarkService.Remove(commandContext(cmd), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no bookmark named %q", args[0])
	}
	if err != nil {
		return err
	}
	cmd.Printf("Removed %s.\n", args[0])
	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if bookmarkService == nil {
		return errors.New("bookmark service not configured")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	locations, err := bookmarkService.History(commandContext(cmd), limit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(locations) == 0 {
		cmd.Println("No locations visited yet.")
		return nil
	}
	for _, loc := range locations {
		cmd.Printf("  %s  %s\n", loc.VisitedAt.Local().Format("2006-01-02 15:04"), orDash(loc.Query.String()))
	}
	return nil
}
