// Package pipeline orchestrates the analysis stages: ingest pages, segment
// the section outline, chunk section content, and render diagrams, writing
// each stage's artifact to the output directory.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/deduar/document-analizer/internal/chunker"
	"github.com/deduar/document-analizer/internal/config"
	"github.com/deduar/document-analizer/internal/diagram"
	"github.com/deduar/document-analizer/internal/document"
	"github.com/deduar/document-analizer/internal/pagesource"
	"github.com/deduar/document-analizer/internal/segment"
)

// Options selects which stages a run executes and where artifacts come from
// and go. Zero-value string fields fall back to the runner's config.
type Options struct {
	// InputPath is the source document. Required unless RawPagesPath reuses
	// a previous ingest artifact.
	InputPath string
	// RawPagesPath reuses an existing raw-pages artifact instead of
	// ingesting InputPath.
	RawPagesPath string

	OutDir string

	Segment bool
	Chunk   bool

	// SectionsPath supplies an existing sections artifact for chunk-only
	// runs.
	SectionsPath string

	// UpdateKeywords appends discovered headings to the configured keyword
	// file before segmenting. Requires a keyword file.
	UpdateKeywords bool

	NoDiagrams bool

	// OnStage, when set, observes stage transitions.
	OnStage func(stage string)
}

// Runner executes analysis runs against one configuration.
type Runner struct {
	cfg config.Config
	log *slog.Logger
}

// NewRunner returns a runner bound to cfg.
func NewRunner(cfg config.Config, log *slog.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run executes the selected stages and returns a name to path map of every
// artifact written.
func (r *Runner) Run(opts Options) (map[string]string, error) {
	outDir := opts.OutDir
	if outDir == "" {
		outDir = r.cfg.OutDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	outputs := make(map[string]string)

	payload, err := r.loadPages(opts, outDir, outputs)
	if err != nil {
		return nil, err
	}

	var sections []document.Section
	haveSections := false

	if opts.Segment {
		r.stage(opts, "segmenting")
		sections, err = r.segmentPages(payload.Pages, opts)
		if err != nil {
			return nil, err
		}
		haveSections = true

		sectionsPath := filepath.Join(outDir, r.cfg.SectionsOutputName)
		err = document.WriteJSON(sectionsPath, document.SectionsPayload{
			SourceFile:   payload.SourceFile,
			SectionCount: len(sections),
			Sections:     sections,
		})
		if err != nil {
			return nil, err
		}
		outputs["sections"] = sectionsPath
		r.log.Info("segmented document",
			"source", payload.SourceFile, "sections", len(sections))

		if r.cfg.GenerateDiagrams && !opts.NoDiagrams {
			sourceFile := payload.SourceFile
			if sourceFile == "" {
				sourceFile = "document"
			}
			treePath := filepath.Join(outDir, r.cfg.TreeOutputName)
			if err := writeText(treePath, diagram.SectionsTree(sourceFile, sections)); err != nil {
				return nil, err
			}
			outputs["sections_tree"] = treePath

			relatedPath := filepath.Join(outDir, r.cfg.RelatedOutputName)
			if err := writeText(relatedPath, diagram.SectionsRelated(sections)); err != nil {
				return nil, err
			}
			outputs["sections_related"] = relatedPath
		}
	}

	if opts.Chunk {
		r.stage(opts, "chunking")
		if !haveSections {
			if opts.SectionsPath == "" {
				return nil, fmt.Errorf("sections path is required when chunking without segmenting")
			}
			sectionsPayload, err := document.ReadSectionsPayload(opts.SectionsPath)
			if err != nil {
				return nil, err
			}
			sections = sectionsPayload.Sections
		}
		chunks := chunker.Chunk(payload.Pages, sections)
		chunksPath := filepath.Join(outDir, r.cfg.ChunksOutputName)
		err = document.WriteJSON(chunksPath, document.ChunksPayload{
			SourceFile: payload.SourceFile,
			ChunkCount: len(chunks),
			Chunks:     chunks,
		})
		if err != nil {
			return nil, err
		}
		outputs["chunks"] = chunksPath
		r.log.Info("chunked document",
			"source", payload.SourceFile, "chunks", len(chunks))
	}

	return outputs, nil
}

// loadPages either reuses a raw-pages artifact or ingests the input
// document and writes a fresh one.
func (r *Runner) loadPages(opts Options, outDir string, outputs map[string]string) (*document.PagesPayload, error) {
	if opts.RawPagesPath != "" {
		return document.ReadPagesPayload(opts.RawPagesPath)
	}
	if opts.InputPath == "" {
		return nil, fmt.Errorf("input path is required when no raw pages artifact is given")
	}

	r.stage(opts, "ingesting")
	source, err := pagesource.ForFile(opts.InputPath, r.cfg.ExtractWords)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	pages, err := source.Load(f, filepath.Base(opts.InputPath))
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", opts.InputPath, err)
	}

	payload := &document.PagesPayload{
		SourceFile: opts.InputPath,
		PageCount:  len(pages),
		Pages:      pages,
	}
	rawPath := filepath.Join(outDir, r.cfg.RawOutputName)
	if err := document.WriteJSON(rawPath, payload); err != nil {
		return nil, err
	}
	outputs["raw_pages"] = rawPath
	r.log.Info("ingested document", "source", opts.InputPath, "pages", len(pages))
	return payload, nil
}

// segmentPages resolves the keyword set, optionally running discovery, and
// builds the section outline.
func (r *Runner) segmentPages(pages []document.Page, opts Options) ([]document.Section, error) {
	if opts.UpdateKeywords && r.cfg.KeywordsFile == "" {
		return nil, fmt.Errorf("a keywords file is required when keyword update is enabled")
	}

	ks := segment.DefaultKeywordSet()
	if r.cfg.KeywordsFile != "" {
		loaded, err := segment.LoadKeywordsFile(r.cfg.KeywordsFile)
		if err != nil {
			return nil, err
		}
		ks = loaded
		if opts.UpdateKeywords {
			c, err := segment.NewClassifier(ks)
			if err != nil {
				return nil, err
			}
			candidates := segment.DiscoverHeadings(pages, c)
			ks, err = segment.UpdateKeywordsFile(
				r.cfg.KeywordsFile, candidates, r.cfg.AutoClassifySubsections)
			if err != nil {
				return nil, err
			}
			if len(candidates) > 0 {
				r.log.Info("updated keywords file",
					"path", r.cfg.KeywordsFile, "added", len(candidates))
			}
		}
	}

	classifier, err := segment.NewClassifier(ks)
	if err != nil {
		return nil, err
	}
	return segment.NewBuilder(classifier).Segment(pages), nil
}

func (r *Runner) stage(opts Options, name string) {
	if opts.OnStage != nil {
		opts.OnStage(name)
	}
}

func writeText(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
