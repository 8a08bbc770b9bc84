package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/deduar/document-analizer/internal/pagesource"
	"github.com/deduar/document-analizer/internal/segment"
	"github.com/spf13/cobra"
)

var (
	keywordsFile    string
	keywordsUpdate  bool
	keywordsAutoSub bool
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Manage the heading keyword file",
}

var keywordsDiscoverCmd = &cobra.Command{
	Use:   "discover <input>",
	Short: "Discover heading candidates in a document",
	Long: `Discover ingests a document and lists heading-like lines that are not
yet in the keyword vocabulary. With --update the candidates are appended
to the keyword file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if keywordsFile != "" {
			cfg.KeywordsFile = keywordsFile
		}
		if keywordsUpdate && cfg.KeywordsFile == "" {
			return fmt.Errorf("--update requires a keywords file")
		}

		source, err := pagesource.ForFile(args[0], cfg.ExtractWords)
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		pages, err := source.Load(f, filepath.Base(args[0]))
		if err != nil {
			return err
		}

		ks := segment.DefaultKeywordSet()
		if cfg.KeywordsFile != "" {
			if ks, err = segment.LoadKeywordsFile(cfg.KeywordsFile); err != nil {
				return err
			}
		}
		classifier, err := segment.NewClassifier(ks)
		if err != nil {
			return err
		}

		candidates := segment.DiscoverHeadings(pages, classifier)
		for _, candidate := range candidates {
			fmt.Fprintln(cmd.OutOrStdout(), candidate)
		}
		if !keywordsUpdate || len(candidates) == 0 {
			return nil
		}
		autoSub := keywordsAutoSub || cfg.AutoClassifySubsections
		if _, err := segment.UpdateKeywordsFile(cfg.KeywordsFile, candidates, autoSub); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "appended %d keywords to %s\n", len(candidates), cfg.KeywordsFile)
		return nil
	},
}

func init() {
	keywordsDiscoverCmd.Flags().StringVar(&keywordsFile, "keywords-file", "", "keyword file overriding the configured one")
	keywordsDiscoverCmd.Flags().BoolVar(&keywordsUpdate, "update", false, "append discovered candidates to the keyword file")
	keywordsDiscoverCmd.Flags().BoolVar(&keywordsAutoSub, "auto-classify-subsections", false, "tag candidates matching subsection patterns as subsections")

	keywordsCmd.AddCommand(keywordsDiscoverCmd)
	rootCmd.AddCommand(keywordsCmd)
}
