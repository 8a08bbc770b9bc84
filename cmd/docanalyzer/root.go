package main

import (
	"fmt"
	"os"

	"github.com/deduar/document-analizer/internal/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "docanalyzer",
	Short: "Heuristic document structure analyzer",
	Long: `docanalyzer extracts pages from PDF, DOCX, Markdown, HTML and plain-text
documents, classifies headings, builds a section outline, chunks section
content into paragraph and table blocks, and renders mermaid diagrams of
the resulting structure.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
}

// loadConfig resolves the effective configuration: environment defaults
// overlaid with the optional YAML file.
func loadConfig() (config.Config, error) {
	cfg := config.Load()
	if configPath != "" {
		if err := cfg.ApplyFile(configPath); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
