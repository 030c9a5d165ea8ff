package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/synthcache/internal/dispatch"
	"github.com/nikbrunner/synthcache/internal/fetch"
	"github.com/nikbrunner/synthcache/internal/router"
	"github.com/nikbrunner/synthcache/internal/service"
)

// --- analyze ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Fetch a page, tag its bookmark and route it to a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			a, err := e.svc.AnalyzeURL(ctx, args[0], mode())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(a)
			}
			printAnalysis(a)
			return nil
		})
	},
}

func printAnalysis(a service.Analysis) {
	if a.Skipped {
		printWarning("Skipped special URL %s", a.URL)
		return
	}
	if a.URLFallback {
		printWarning("Page could not be fetched, analyzed from the URL only")
	}
	printStatus("Keywords", "%s", strings.Join(a.Keywords, ", "))
	printStatus("Video", "%t", a.HasVideo)
	if a.AI != nil {
		printStatus("AI content", "%s", a.AI.Summary())
	}

	switch a.Outcome.Result {
	case router.OutcomeNoBookmark:
		printWarning("No bookmark for %s, nothing to tag", a.URL)
	case router.OutcomeUnchanged:
		printSuccess("Already up to date (%s)", a.Outcome.Target)
	default:
		printSuccess("Routed to %s with tags %s", a.Outcome.Target, hashTags(a.Outcome.Tags))
	}
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "print the analysis as JSON")
}

// --- analyze-all ---

var analyzeAllCmd = &cobra.Command{
	Use:   "analyze-all",
	Short: "Re-analyze every bookmark, one at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			e.svc.Subscribe(printProgress)
			p, err := e.svc.AnalyzeAll(ctx, mode())
			if err != nil {
				return err
			}
			printSuccess("Analyzed %d bookmarks: %d tagged, %d failed", p.Processed, p.Success, p.Failed)
			return nil
		})
	},
}

func printProgress(p dispatch.Progress) {
	if p.IsComplete {
		printStep("%s", p.Status)
		return
	}
	printStep("%s (%d/%d)", p.Status, p.Processed, p.Total)
}

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import <file.html>",
	Short: "Import bookmarks from Netscape bookmark HTML and analyze them",
	Long: `Import bookmarks from Netscape bookmark HTML.

New links go to the Normal Browsing folder, or to Private Content with
--incognito. URLs that are already bookmarked are skipped. Imported
bookmarks are analyzed afterwards, staggered.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noAnalyze, _ := cmd.Flags().GetBool("no-wait")

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening file: %w", err)
		}
		defer file.Close()

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			res, err := e.svc.Import(ctx, file, mode())
			if err != nil {
				return err
			}
			printSuccess("Imported %d of %d bookmarks", res.Imported, res.Found)
			if res.Skipped > 0 {
				printStatus("Skipped", "%d (duplicates or unsupported links)", res.Skipped)
			}
			if res.Scheduled == 0 || noAnalyze {
				return nil
			}

			printStep("Analyzing %d imported bookmarks...", res.Scheduled)
			e.svc.Subscribe(printProgress)
			return e.svc.Wait(ctx)
		})
	},
}

func init() {
	importCmd.Flags().Bool("no-wait", false, "exit without waiting for the analysis of imported bookmarks")
}

// --- flag-private ---

var flagPrivateCmd = &cobra.Command{
	Use:   "flag-private <url>",
	Short: "Move a page into the encrypted vault and remove its bookmarks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		passphrase, err := passphraseFrom(cmd)
		if err != nil {
			return err
		}

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			res, err := e.svc.FlagPrivate(ctx, args[0], title, passphrase)
			if err != nil {
				return err
			}
			printSuccess("Stored in vault, %d bookmark(s) removed", res.Removed)
			return nil
		})
	},
}

func init() {
	flagPrivateCmd.Flags().String("title", "", "title to store (defaults to the URL)")
	addPassphraseFlag(flagPrivateCmd)
}

// --- vault ---

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Inspect the encrypted vault",
}

var vaultUnlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Decrypt and list the vault entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		passphrase, err := passphraseFrom(cmd)
		if err != nil {
			return err
		}

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			entries, err := e.svc.UnlockVault(passphrase)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(entries)
			}
			if len(entries) == 0 {
				printStatus("Vault", "empty")
				return nil
			}
			for _, entry := range entries {
				fmt.Printf("%s  %s\n  %s\n", entry.DateAdded.Format("2006-01-02"), entry.Title, entry.URL)
			}
			return nil
		})
	},
}

var vaultStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a vault passphrase has been set",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			ok, err := e.svc.VaultInitialized()
			if err != nil {
				return err
			}
			if ok {
				printStatus("Vault", "initialized")
			} else {
				printStatus("Vault", "not initialized (the first flag-private sets the passphrase)")
			}
			return nil
		})
	},
}

func init() {
	vaultUnlockCmd.Flags().Bool("json", false, "print entries as JSON")
	addPassphraseFlag(vaultUnlockCmd)
	vaultCmd.AddCommand(vaultUnlockCmd, vaultStatusCmd)
}

func addPassphraseFlag(cmd *cobra.Command) {
	cmd.Flags().String("passphrase", "", "vault passphrase (read from stdin when empty)")
}

// passphraseFrom returns --passphrase, or the first line of stdin.
func passphraseFrom(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("passphrase"); p != "" {
		return p, nil
	}
	fmt.Fprint(os.Stderr, "Passphrase: ")
	return readLine(cmd.InOrStdin())
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// --- folders ---

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Show the managed folder ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			reg, err := e.svc.FolderIDs(ctx)
			if err != nil {
				return err
			}
			return printJSON(reg)
		})
	},
}

// --- diag ---

var diagCmd = &cobra.Command{
	Use:   "diag",
	Short: "Manage captured diagnostics",
}

var diagShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show how many records each category holds",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			for _, c := range e.svc.DiagnosticCounts() {
				printStatus(string(c.Category), "%d", c.Count)
			}
			return nil
		})
	},
}

var diagSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write captured diagnostics to the diagnostics directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			paths, err := e.svc.SaveDiagnostics()
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				printStatus("Diagnostics", "nothing captured")
				return nil
			}
			for _, p := range paths {
				printSuccess("Saved %s", p)
			}
			return nil
		})
	},
}

var diagClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop captured diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			e.svc.ClearDiagnostics()
			printSuccess("Diagnostics cleared")
			return nil
		})
	},
}

func init() {
	diagCmd.AddCommand(diagShowCmd, diagSaveCmd, diagClearCmd)
}

// --- keywords ---

var keywordsCmd = &cobra.Command{
	Use:   "keywords <url>",
	Short: "Explain keyword selection for a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			page, err := fetch.New(e.cfg.FetchTimeout.Std()).Fetch(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(e.svc.ExplainKeywords(page.Signal))
		})
	},
}

// --- ai-score ---

var aiScoreCmd = &cobra.Command{
	Use:   "ai-score [file]",
	Short: "Score text for AI-generated content (reads stdin without a file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer f.Close()
			r = f
		}
		text, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("reading text: %w", err)
		}

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			score := e.svc.ScoreText(string(text))
			printStatus("AI content", "%s", score.Summary())
			return printJSON(score)
		})
	},
}
