package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/deduar/document-analizer/internal/document"
	"github.com/deduar/document-analizer/internal/query"
	"github.com/spf13/cobra"
)

var (
	queryID           string
	queryExact        bool
	querySectionsFile string
	queryChunksFile   string
	queryPagesFile    string
	queryNoChildren   bool
	queryNoSiblings   bool
	queryDescendants  bool
	queryMaxChunks    int
	queryDataLines    int
)

var queryCmd = &cobra.Command{
	Use:   "query [title]",
	Short: "Look up a section's context in existing artifacts",
	Long: `Query loads the sections artifact of a previous run and prints the
context of the matched sections as JSON: parent chain, children, siblings
and, when chunk and page artifacts are available, attached chunks and a
data excerpt. Match by title substring, exact title with --exact, or
section id with --id.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && queryID == "" {
			return fmt.Errorf("a title or --id is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sectionsPath := querySectionsFile
		if sectionsPath == "" {
			sectionsPath = filepath.Join(cfg.OutDir, cfg.SectionsOutputName)
		}
		sections, err := document.ReadSectionsPayload(sectionsPath)
		if err != nil {
			return err
		}
		engine := query.New(sections.Sections)

		chunksPath := queryChunksFile
		if chunksPath == "" {
			chunksPath = filepath.Join(cfg.OutDir, cfg.ChunksOutputName)
		}
		if chunks, err := document.ReadChunksPayload(chunksPath); err == nil {
			engine = engine.WithChunks(chunks.Chunks)
		}

		pagesPath := queryPagesFile
		if pagesPath == "" {
			pagesPath = filepath.Join(cfg.OutDir, cfg.RawOutputName)
		}
		if pages, err := document.ReadPagesPayload(pagesPath); err == nil {
			engine = engine.WithPages(pages.Pages)
		}

		maxChunks := queryMaxChunks
		if !cmd.Flags().Changed("max-chunks") {
			maxChunks = cfg.MaxContextChunks
		}
		dataLines := queryDataLines
		if !cmd.Flags().Changed("data-lines") {
			dataLines = cfg.MaxDataLines
		}
		opts := query.Options{
			IncludeChildren:    !queryNoChildren,
			IncludeSiblings:    !queryNoSiblings,
			IncludeDescendants: queryDescendants,
			MaxChunks:          maxChunks,
			MaxDataLines:       dataLines,
		}

		var contexts []query.Context
		if queryID != "" {
			ctx := engine.ContextByID(queryID, opts)
			if ctx == nil {
				return fmt.Errorf("no section with id %q", queryID)
			}
			contexts = []query.Context{*ctx}
		} else {
			contexts = engine.ContextByTitle(args[0], queryExact, opts)
			if len(contexts) == 0 {
				return fmt.Errorf("no section matches %q", args[0])
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(contexts)
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryID, "id", "", "match by section id instead of title")
	queryCmd.Flags().BoolVar(&queryExact, "exact", false, "require an exact title match")
	queryCmd.Flags().StringVar(&querySectionsFile, "sections-file", "", "sections artifact path")
	queryCmd.Flags().StringVar(&queryChunksFile, "chunks-file", "", "chunks artifact path")
	queryCmd.Flags().StringVar(&queryPagesFile, "pages-file", "", "raw-pages artifact path")
	queryCmd.Flags().BoolVar(&queryNoChildren, "no-children", false, "omit child sections")
	queryCmd.Flags().BoolVar(&queryNoSiblings, "no-siblings", false, "omit sibling sections")
	queryCmd.Flags().BoolVar(&queryDescendants, "descendants", false, "include the full descendant subtree")
	queryCmd.Flags().IntVar(&queryMaxChunks, "max-chunks", 0, "maximum chunks attached per match")
	queryCmd.Flags().IntVar(&queryDataLines, "data-lines", 0, "maximum data excerpt lines per match")

	rootCmd.AddCommand(queryCmd)
}
