package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/synthcache/internal/exporter"
	"github.com/nikbrunner/synthcache/internal/model"
	"github.com/nikbrunner/synthcache/internal/picker"
	"github.com/nikbrunner/synthcache/internal/tui"
	"github.com/nikbrunner/synthcache/internal/visibility"
)

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks visible in the current mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := filtersFromFlags(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			list, err := e.svc.List(ctx, mode(), f)
			if err != nil {
				return err
			}
			return printBookmarks(list, asJSON)
		})
	},
}

// filtersFromFlags reads the list filter flags. Mode restrictions are
// applied later by the service.
func filtersFromFlags(cmd *cobra.Command) (visibility.Filters, error) {
	f := visibility.DefaultFilters()
	f.Search, _ = cmd.Flags().GetString("search")

	tags, _ := cmd.Flags().GetStringSlice("tags")
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			f.Tags = append(f.Tags, t)
		}
	}

	sortFlag, _ := cmd.Flags().GetString("sort")
	sort, err := visibility.ParseSortMode(sortFlag)
	if err != nil {
		return f, err
	}
	f.Sort = sort

	if hide, _ := cmd.Flags().GetBool("hide-normal"); hide {
		f.ShowNormal = false
	}
	f.ShowNSFW, _ = cmd.Flags().GetBool("private")
	return f, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("search", "", "substring match on title, URL or tags")
	cmd.Flags().StringSlice("tags", nil, "only bookmarks carrying all of these tags")
	cmd.Flags().String("sort", "title", "sort by title, date, folder or tags")
	cmd.Flags().Bool("hide-normal", false, "leave out bookmarks in the normal folder")
	cmd.Flags().Bool("private", false, "include private bookmarks (incognito only)")
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().Bool("json", false, "print bookmarks as JSON")
}

func printBookmarks(list []model.Bookmark, asJSON bool) error {
	if asJSON {
		return printJSON(list)
	}
	if len(list) == 0 {
		printStatus("Bookmarks", "none")
		return nil
	}
	for _, b := range list {
		line := b.DisplayTitle()
		if b.FolderType == model.FolderNSFWHidden {
			line = "! " + line
		}
		if len(b.Tags) > 0 {
			line += "  " + colorize(colorCyan, hashTags(b.Tags))
		}
		fmt.Println(line)
		fmt.Println("  " + b.URL)
	}
	return nil
}

// --- recent ---

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recently added bookmarks",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			list, err := e.svc.Recent(ctx, mode(), limit)
			if err != nil {
				return err
			}
			return printBookmarks(list, asJSON)
		})
	},
}

func init() {
	recentCmd.Flags().Int("limit", 10, "number of bookmarks to show")
	recentCmd.Flags().Bool("json", false, "print bookmarks as JSON")
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Fuzzy search bookmarks and open or copy the chosen one",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			results, err := e.svc.QuickSearch(ctx, mode(), query)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				printWarning("No bookmarks found for %q", query)
				return nil
			}

			if len(results) == 1 {
				b := results[0].Bookmark
				printStep("Opening: %s", b.DisplayTitle())
				openURL(b.URL)
				return nil
			}

			final, err := tea.NewProgram(picker.New(results, query, mode())).Run()
			if err != nil {
				return fmt.Errorf("running picker: %w", err)
			}
			p := final.(picker.Picker)
			b := p.SelectedBookmark()
			if p.Cancelled() || b == nil {
				return nil
			}

			switch p.Action() {
			case picker.ActionCopy:
				if err := clipboard.WriteAll(b.URL); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				printSuccess("Copied %s", b.URL)
			case picker.ActionOpen:
				openURL(b.URL)
			}
			return nil
		})
	},
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}

// --- tags ---

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show the tag cloud for the current mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			cloud, err := e.svc.Tags(ctx, mode(), limit)
			if err != nil {
				return err
			}
			for _, tc := range cloud {
				fmt.Printf("%-24s %d\n", "#"+tc.Tag, tc.Count)
			}
			return nil
		})
	},
}

func init() {
	tagsCmd.Flags().Int("limit", visibility.DefaultTagCloudSize, "number of tags to show")
}

// --- stats ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bookmark counts for the current mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			stats, err := e.svc.Stats(ctx, mode())
			if err != nil {
				return err
			}
			printStatus("Total", "%d", stats.Total)
			printStatus("Tagged", "%d", stats.Tagged)
			if stats.Private != nil {
				printStatus("Private", "%d", *stats.Private)
			}
			return nil
		})
	},
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export visible bookmarks as Netscape bookmark HTML",
	Long: `Export the bookmarks visible in the current mode as Netscape bookmark
HTML. Tags are written to a TAGS attribute.

Default path: ~/Downloads/synthcache-export-YYYY-MM-DD.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := filtersFromFlags(cmd)
		if err != nil {
			return err
		}

		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			path, err = exporter.DefaultExportPath()
			if err != nil {
				return fmt.Errorf("resolving export path: %w", err)
			}
		}

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			html, err := e.svc.Export(ctx, mode(), f)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			printSuccess("Exported to %s", path)
			return nil
		})
	},
}

func init() {
	addFilterFlags(exportCmd)
}

// --- manage ---

var manageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Browse bookmarks in the interactive manager",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			bookmarks, err := e.svc.Bookmarks(ctx)
			if err != nil {
				return err
			}

			app := tui.NewApp(tui.AppParams{
				Bookmarks: bookmarks,
				Mode:      mode(),
				Load: func() ([]model.Bookmark, error) {
					return e.svc.Bookmarks(ctx)
				},
			})
			if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("running manager: %w", err)
			}
			return nil
		})
	},
}
