package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable of the analyzer. Values load from the
// environment first; an optional YAML file overlays the pipeline settings.
type Config struct {
	Port string

	// Auth for the HTTP API.
	APIKey string

	// Pipeline defaults.
	OutDir       string
	ExtractWords bool

	// Artifact filenames.
	RawOutputName      string
	SectionsOutputName string
	ChunksOutputName   string
	TreeOutputName     string
	RelatedOutputName  string

	// Keyword classification.
	KeywordsFile            string
	AutoClassifySubsections bool

	GenerateDiagrams bool

	// Query context caps.
	MaxContextChunks int
	MaxDataLines     int

	// Worker pool for the HTTP server.
	WorkerCount  int
	MaxQueueSize int

	// Upload limits.
	MaxUploadBytes int64

	// Job state.
	JobTTL time.Duration
}

// fileConfig is the YAML overlay. Keys match the artifact names the pipeline
// writes.
type fileConfig struct {
	ExtractWords            *bool  `yaml:"extract_words"`
	RawOutputFilename       string `yaml:"raw_output_filename"`
	SectionsOutputFilename  string `yaml:"sections_output_filename"`
	ChunksOutputFilename    string `yaml:"chunks_output_filename"`
	SectionsTreeFilename    string `yaml:"sections_tree_filename"`
	SectionsRelatedFilename string `yaml:"sections_related_filename"`
	KeywordsFile            string `yaml:"keywords_file"`
	AutoClassifySubsections *bool  `yaml:"auto_classify_subsections"`
}

// Load reads configuration from the environment with sane defaults.
func Load() Config {
	cfg := Config{
		Port:   envOr("PORT", "8090"),
		APIKey: os.Getenv("DOCANALYZER_API_KEY"),

		OutDir:       envOr("DOCANALYZER_OUT_DIR", "out"),
		ExtractWords: envBool("DOCANALYZER_EXTRACT_WORDS", true),

		RawOutputName:      envOr("DOCANALYZER_RAW_OUTPUT", "raw_pages.json"),
		SectionsOutputName: envOr("DOCANALYZER_SECTIONS_OUTPUT", "sections.json"),
		ChunksOutputName:   envOr("DOCANALYZER_CHUNKS_OUTPUT", "chunks.json"),
		TreeOutputName:     envOr("DOCANALYZER_TREE_OUTPUT", "sections_tree.mmd"),
		RelatedOutputName:  envOr("DOCANALYZER_RELATED_OUTPUT", "sections_related.mmd"),

		KeywordsFile:            os.Getenv("DOCANALYZER_KEYWORDS_FILE"),
		AutoClassifySubsections: envBool("DOCANALYZER_AUTO_CLASSIFY_SUBSECTIONS", false),

		GenerateDiagrams: envBool("DOCANALYZER_DIAGRAMS", true),

		MaxContextChunks: envInt("DOCANALYZER_MAX_CONTEXT_CHUNKS", 5),
		MaxDataLines:     envInt("DOCANALYZER_MAX_DATA_LINES", 10),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxContextChunks <= 0 {
		cfg.MaxContextChunks = 5
	}
	if cfg.MaxDataLines <= 0 {
		cfg.MaxDataLines = 10
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// ApplyFile overlays YAML settings from path. A missing file is not an
// error so the default config path can be probed.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.ExtractWords != nil {
		c.ExtractWords = *fc.ExtractWords
	}
	if fc.RawOutputFilename != "" {
		c.RawOutputName = fc.RawOutputFilename
	}
	if fc.SectionsOutputFilename != "" {
		c.SectionsOutputName = fc.SectionsOutputFilename
	}
	if fc.ChunksOutputFilename != "" {
		c.ChunksOutputName = fc.ChunksOutputFilename
	}
	if fc.SectionsTreeFilename != "" {
		c.TreeOutputName = fc.SectionsTreeFilename
	}
	if fc.SectionsRelatedFilename != "" {
		c.RelatedOutputName = fc.SectionsRelatedFilename
	}
	if fc.KeywordsFile != "" {
		c.KeywordsFile = fc.KeywordsFile
	}
	if fc.AutoClassifySubsections != nil {
		c.AutoClassifySubsections = *fc.AutoClassifySubsections
	}
	return nil
}

// Validate checks the settings required to run the HTTP server.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCANALYZER_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
