package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriscorrea/hilite/internal/category"
	"github.com/chriscorrea/hilite/internal/counter"
	"github.com/chriscorrea/hilite/internal/detect"
	"github.com/chriscorrea/hilite/internal/extract"
	"github.com/chriscorrea/hilite/internal/fetch"
	"github.com/chriscorrea/hilite/internal/highlight"
	"github.com/chriscorrea/hilite/internal/keywords"
	"github.com/chriscorrea/hilite/internal/pages"
	"github.com/chriscorrea/hilite/internal/rank"
	"github.com/chriscorrea/hilite/internal/rules"
	"github.com/chriscorrea/hilite/internal/spinner"
	"github.com/chriscorrea/hilite/internal/store"
)

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	level := slog.LevelError
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// libraryDir returns the configured library root.
func libraryDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("library")
	return dir
}

// newStore opens the file store under the library root.
func newStore(cmd *cobra.Command) (*store.FileStore, error) {
	s, err := store.NewFileStore(libraryDir(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to open highlight store: %w", err)
	}
	return s, nil
}

// newDetector builds a detector over the library's page and keyword
// sources.
func newDetector(cmd *cobra.Command) *detect.Detector {
	source := pages.NewDirSource(libraryDir(cmd))
	var opts []detect.Option
	if ner, _ := cmd.Flags().GetBool("ner"); ner {
		opts = append(opts, detect.WithEntityRecognition())
	}
	if maxPages, _ := cmd.Flags().GetInt("max-pages"); maxPages > 0 {
		opts = append(opts, detect.WithMaxPages(maxPages))
	}
	return detect.New(rules.NewCatalog(), source, source, opts...)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printHighlights renders records in the plain one-per-line format.
func printHighlights(records []highlight.Highlight) {
	for _, h := range records {
		fmt.Println(h)
	}
}

// singlePage adapts one extracted document to the detector's page
// source contract for the scan command.
type singlePage struct {
	text string
}

func (s singlePage) Pages(book, chapter string) ([]pages.Page, error) {
	return []pages.Page{{Number: 1, Text: s.text}}, nil
}

// noKeywords is the keyword source for scans outside the library.
type noKeywords struct{}

func (noKeywords) Keywords(book, chapter string) ([]string, error) {
	return nil, nil
}

var rootCmd = &cobra.Command{
	Use:   "hilite",
	Short: "Detect and manage study highlights in textbook chapters",
	Long: `Hilite scans digitized textbook chapters for study-worthy spans
(definitions, dates, units, examples, acronyms, ...) using a fixed rule
catalog, and manages the per-chapter highlight collections those scans
and manual selections produce.

Chapter text, PYQ keyword lists, and stored highlights live under the
library directory (see --library).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogger(debug)
	},
	SilenceUsage: true,
}

var detectCmd = &cobra.Command{
	Use:   "detect <book> <chapter>",
	Short: "Run rule-based highlight detection over a chapter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, chapter := args[0], args[1]

		cats, _ := cmd.Flags().GetStringSlice("category")
		var requested []string
		if cmd.Flags().Changed("category") {
			requested = cats
		}

		opts := detect.Options{Categories: requested}
		if cmd.Flags().Changed("page") {
			page, _ := cmd.Flags().GetInt("page")
			opts.Page = &page
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		quiet, _ := cmd.Flags().GetBool("quiet")
		var sp *spinner.Spinner
		if !quiet {
			sp = spinner.New(ctx, os.Stderr, fmt.Sprintf("Scanning %s/%s...", book, chapter))
			sp.Start()
		}

		detector := newDetector(cmd)
		records, err := detector.Detect(ctx, book, chapter, opts)
		if sp != nil {
			sp.Stop()
		}
		if err != nil {
			return fmt.Errorf("detection failed: %w", err)
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			s, err := newStore(cmd)
			if err != nil {
				return err
			}
			added, skipped := 0, 0
			for _, h := range records {
				ok, err := s.Insert(book, chapter, h)
				if err != nil {
					slog.Warn("skipping rejected highlight", "highlight", h, "error", err)
					skipped++
					continue
				}
				if ok {
					added++
				} else {
					skipped++
				}
			}
			if !quiet {
				fmt.Fprintf(os.Stderr, "Saved %d highlights (%d skipped)\n", added, skipped)
			}
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(records)
		}
		printHighlights(records)
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [source]",
	Short: "Detect highlights in a one-off document (URL, file, or stdin)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := "-"
		if len(args) == 1 {
			source = args[0]
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		reader, err := fetch.Open(ctx, source)
		if err != nil {
			return err
		}
		defer reader.Close()

		var text string
		if plain, _ := cmd.Flags().GetBool("text"); plain {
			data, err := io.ReadAll(reader)
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", source, err)
			}
			text = string(data)
		} else {
			selector, _ := cmd.Flags().GetString("selector")
			text, err = extract.ToText(reader, selector)
			if err != nil {
				return fmt.Errorf("failed to extract text from %q: %w", source, err)
			}
		}

		cats, _ := cmd.Flags().GetStringSlice("category")
		var requested []string
		if cmd.Flags().Changed("category") {
			requested = cats
		}

		var opts []detect.Option
		if ner, _ := cmd.Flags().GetBool("ner"); ner {
			opts = append(opts, detect.WithEntityRecognition())
		}
		detector := detect.New(rules.NewCatalog(), singlePage{text: text}, noKeywords{}, opts...)

		records, err := detector.Detect(ctx, "-", "-", detect.Options{Categories: requested})
		if err != nil {
			return fmt.Errorf("detection failed: %w", err)
		}
		return printJSON(records)
	},
}

var listCmd = &cobra.Command{
	Use:   "list <book> <chapter>",
	Short: "List stored highlights for a chapter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newStore(cmd)
		if err != nil {
			return err
		}

		var f store.Filter
		if cmd.Flags().Changed("page") {
			page, _ := cmd.Flags().GetInt("page")
			f.Page = &page
		}
		f.Category, _ = cmd.Flags().GetString("category")

		records, err := s.List(args[0], args[1], f)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(records)
		}
		printHighlights(records)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <book> <chapter>",
	Short: "Add a manual highlight",
	Long: `Add records a user-selected span as a highlight. Without explicit
--start/--end the page text is loaded from the library and the first
case-insensitive occurrence of --text is highlighted; explicit offsets
are trusted as given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, chapter := args[0], args[1]
		text, _ := cmd.Flags().GetString("text")
		cat, _ := cmd.Flags().GetString("category")
		page, _ := cmd.Flags().GetInt("page")

		var record highlight.Highlight
		if cmd.Flags().Changed("start") && cmd.Flags().Changed("end") {
			start, _ := cmd.Flags().GetInt("start")
			end, _ := cmd.Flags().GetInt("end")
			record = highlight.Highlight{
				Text:       text,
				Start:      start,
				End:        end,
				Category:   category.Category(cat),
				PageNumber: page,
				Source:     highlight.SourceManual,
			}
		} else {
			source := pages.NewDirSource(libraryDir(cmd))
			pageList, err := source.Pages(book, chapter)
			if err != nil {
				return err
			}
			var pageText string
			found := false
			for _, pg := range pageList {
				if pg.Number == page {
					pageText = pg.Text
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("page %d not found in %s/%s", page, book, chapter)
			}
			record, err = highlight.Manual(pageText, text, category.Category(cat), page)
			if err != nil {
				return err
			}
		}

		s, err := newStore(cmd)
		if err != nil {
			return err
		}
		added, err := s.Insert(book, chapter, record)
		if err != nil {
			return err
		}
		if !added {
			fmt.Fprintln(os.Stderr, "Highlight already exists, skipped")
			return nil
		}
		fmt.Println(record)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <book> <chapter>",
	Short: "Remove a highlight by exact match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		cat, _ := cmd.Flags().GetString("category")
		page, _ := cmd.Flags().GetInt("page")
		start, _ := cmd.Flags().GetInt("start")
		end, _ := cmd.Flags().GetInt("end")

		s, err := newStore(cmd)
		if err != nil {
			return err
		}
		removed, err := s.Remove(args[0], args[1], highlight.Key{
			Text:       text,
			Category:   category.Category(cat),
			PageNumber: page,
			Start:      start,
			End:        end,
		})
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintln(os.Stderr, "Highlight not found, nothing removed")
			return nil
		}
		fmt.Fprintln(os.Stderr, "Highlight removed")
		return nil
	},
}

var replaceCmd = &cobra.Command{
	Use:   "replace <book> <chapter>",
	Short: "Replace a chapter's entire highlight collection from a JSON file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", path, err)
		}
		var records []highlight.Highlight
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("failed to parse %q: %w", path, err)
		}

		s, err := newStore(cmd)
		if err != nil {
			return err
		}
		if err := s.ReplaceAll(args[0], args[1], records); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Replaced collection with %d highlights\n", len(records))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <book> <chapter> <query>...",
	Short: "Rank a chapter's stored highlights against a query",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newStore(cmd)
		if err != nil {
			return err
		}
		records, err := s.List(args[0], args[1], store.Filter{})
		if err != nil {
			return err
		}

		ranked := rank.Highlights(strings.Join(args[2:], " "), records)
		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}
		for _, r := range ranked {
			fmt.Printf("%6.3f  %s\n", r.Score, r.Highlight)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <book> <chapter>",
	Short: "Show size and highlight statistics for a chapter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, chapter := args[0], args[1]

		method := counter.Tokens
		if words, _ := cmd.Flags().GetBool("words"); words {
			method = counter.Words
		}
		if chars, _ := cmd.Flags().GetBool("chars"); chars {
			method = counter.Characters
		}
		c, err := counter.New(method)
		if err != nil {
			return err
		}

		source := pages.NewDirSource(libraryDir(cmd))
		pageList, err := source.Pages(book, chapter)
		if err != nil {
			return err
		}

		total := 0
		var texts []string
		for _, pg := range pageList {
			n := c.Count(pg.Text)
			total += n
			texts = append(texts, pg.Text)
			fmt.Printf("page %-4d %8d %s\n", pg.Number, n, c.Name())
		}
		fmt.Printf("total     %8d %s across %d pages\n", total, c.Name(), len(pageList))

		s, err := newStore(cmd)
		if err != nil {
			return err
		}
		records, err := s.List(book, chapter, store.Filter{})
		if err != nil {
			return err
		}
		byCategory := make(map[string]int)
		for _, h := range records {
			byCategory[string(h.Category)]++
		}
		fmt.Printf("highlights %d stored\n", len(records))
		for cat, n := range byCategory {
			fmt.Printf("  %-18s %d\n", cat, n)
		}

		if terms, _ := cmd.Flags().GetInt("terms"); terms > 0 {
			fmt.Println("significant terms:")
			for _, t := range keywords.TopTerms(texts, terms) {
				fmt.Printf("  %-24s %.4f\n", t.Term, t.Score)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("library", "library", "Library root directory (chapter text, pyq lists, highlights)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress info messages")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")
	_ = rootCmd.PersistentFlags().MarkHidden("debug")

	detectCmd.Flags().StringSliceP("category", "c", nil, "Restrict detection to these categories (repeatable)")
	detectCmd.Flags().Int("page", 0, "Restrict detection to a single page")
	detectCmd.Flags().Int("max-pages", 0, "Override the detection page cap")
	detectCmd.Flags().Bool("save", false, "Persist detected highlights to the store")
	detectCmd.Flags().Bool("ner", false, "Enable named-entity recognition for the name category")
	detectCmd.Flags().Bool("json", false, "Output detected highlights as JSON")

	scanCmd.Flags().StringSliceP("category", "c", nil, "Restrict detection to these categories (repeatable)")
	scanCmd.Flags().StringP("selector", "s", "", "CSS selector for content extraction")
	scanCmd.Flags().BoolP("text", "t", false, "Treat the input as plain text, skipping HTML extraction")
	scanCmd.MarkFlagsMutuallyExclusive("text", "selector")
	scanCmd.Flags().Bool("ner", false, "Enable named-entity recognition for the name category")

	listCmd.Flags().Int("page", 0, "Filter by page number")
	listCmd.Flags().StringP("category", "c", "", "Filter by category")
	listCmd.Flags().Bool("json", false, "Output highlights as JSON")

	addCmd.Flags().String("text", "", "Highlighted text")
	addCmd.Flags().StringP("category", "c", "", "Highlight category")
	addCmd.Flags().Int("page", 0, "Page number")
	addCmd.Flags().Int("start", 0, "Explicit start offset (trusted as-is)")
	addCmd.Flags().Int("end", 0, "Explicit end offset (trusted as-is)")
	_ = addCmd.MarkFlagRequired("text")
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("page")
	addCmd.MarkFlagsRequiredTogether("start", "end")

	removeCmd.Flags().String("text", "", "Highlighted text")
	removeCmd.Flags().StringP("category", "c", "", "Highlight category")
	removeCmd.Flags().Int("page", 0, "Page number")
	removeCmd.Flags().Int("start", 0, "Start offset")
	removeCmd.Flags().Int("end", 0, "End offset")
	for _, name := range []string{"text", "category", "page", "start", "end"} {
		_ = removeCmd.MarkFlagRequired(name)
	}

	replaceCmd.Flags().String("file", "", "JSON file with the full replacement collection")
	_ = replaceCmd.MarkFlagRequired("file")

	searchCmd.Flags().IntP("limit", "n", 10, "Maximum results to show")

	statsCmd.Flags().Bool("words", false, "Count words instead of tokens")
	statsCmd.Flags().Bool("chars", false, "Count characters instead of tokens")
	statsCmd.MarkFlagsMutuallyExclusive("words", "chars")
	statsCmd.Flags().Int("terms", 0, "Also show the top N significant terms")

	rootCmd.AddCommand(detectCmd, scanCmd, listCmd, addCmd, removeCmd, replaceCmd, searchCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
