package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/deduar/document-analizer/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	analyzeOut            string
	analyzeRawPages       string
	analyzeSegment        bool
	analyzeChunk          bool
	analyzeSectionsFile   string
	analyzeKeywordsFile   string
	analyzeUpdateKeywords bool
	analyzeAutoSub        bool
	analyzeNoDiagrams     bool
	analyzeNoWords        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [input]",
	Short: "Run the analysis pipeline over a document",
	Long: `Analyze ingests a document into raw pages, segments it into a section
outline, and chunks section content, writing each artifact to the output
directory. Pass --raw-pages to reuse a previous ingest instead of an
input file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && analyzeRawPages == "" {
			return fmt.Errorf("an input file or --raw-pages is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if analyzeKeywordsFile != "" {
			cfg.KeywordsFile = analyzeKeywordsFile
		}
		if analyzeAutoSub {
			cfg.AutoClassifySubsections = true
		}
		if analyzeNoWords {
			cfg.ExtractWords = false
		}

		opts := pipeline.Options{
			RawPagesPath:   analyzeRawPages,
			OutDir:         analyzeOut,
			Segment:        analyzeSegment,
			Chunk:          analyzeChunk,
			SectionsPath:   analyzeSectionsFile,
			UpdateKeywords: analyzeUpdateKeywords,
			NoDiagrams:     analyzeNoDiagrams,
		}
		if len(args) == 1 {
			opts.InputPath = args[0]
		}

		log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		outputs, err := pipeline.NewRunner(cfg, log).Run(opts)
		if err != nil {
			return err
		}
		for name, path := range outputs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, path)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "output directory (defaults to the configured one)")
	analyzeCmd.Flags().StringVar(&analyzeRawPages, "raw-pages", "", "reuse an existing raw-pages artifact instead of ingesting")
	analyzeCmd.Flags().BoolVar(&analyzeSegment, "segment", true, "build the section outline")
	analyzeCmd.Flags().BoolVar(&analyzeChunk, "chunk", true, "chunk section content")
	analyzeCmd.Flags().StringVar(&analyzeSectionsFile, "sections-file", "", "existing sections artifact for chunk-only runs")
	analyzeCmd.Flags().StringVar(&analyzeKeywordsFile, "keywords-file", "", "keyword file overriding the configured one")
	analyzeCmd.Flags().BoolVar(&analyzeUpdateKeywords, "update-keywords", false, "append discovered headings to the keyword file")
	analyzeCmd.Flags().BoolVar(&analyzeAutoSub, "auto-classify-subsections", false, "tag discovered headings matching subsection patterns as subsections")
	analyzeCmd.Flags().BoolVar(&analyzeNoDiagrams, "no-diagrams", false, "skip mermaid diagram generation")
	analyzeCmd.Flags().BoolVar(&analyzeNoWords, "no-words", false, "skip positioned word extraction for PDFs")

	rootCmd.AddCommand(analyzeCmd)
}
