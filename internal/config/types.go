// Package config loads cardgen settings from defaults, an optional YAML file,
// CARDGEN_ environment variables and command-line flags, in increasing order
// of precedence.
package config

// Defaults
const (
	DefaultSize           = 10000
	DefaultMaxDepth       = 8
	DefaultMaxConcurrency = 64
	DefaultCorpusFile     = "queries.csv"
	DefaultAnnotatedFile  = "annotated_queries.csv"
	DefaultLogLevel       = "info"
)

// Config holds every setting of the generate and annotate stages
type Config struct {
	// DatabaseURL selects the engine by scheme (postgres://, mysql://, sqlite://).
	DatabaseURL string `koanf:"database_url"`
	// SchemaFile is a YAML join graph. Empty means the built-in TPC-H graph.
	SchemaFile    string `koanf:"schema_file"`
	CorpusFile    string `koanf:"corpus_file"`
	AnnotatedFile string `koanf:"annotated_file"`

	Size        int `koanf:"size"`
	MaxDepth    int `koanf:"max_depth"`
	MaxAttempts int `koanf:"max_attempts"`
	// Seed fixes the generator's random source. Zero draws a fresh seed.
	Seed uint64 `koanf:"seed"`

	MaxConcurrency int `koanf:"max_concurrency"`
	// MetricsFile receives annotation metrics in the Prometheus text format.
	MetricsFile string `koanf:"metrics_file"`

	LogLevel string `koanf:"log_level"`
	Debug    bool   `koanf:"debug"`
}

// keys lists every configuration key. Flags outside this set are ignored by
// the loader.
var keys = map[string]bool{
	"database_url":    true,
	"schema_file":     true,
	"corpus_file":     true,
	"annotated_file":  true,
	"size":            true,
	"max_depth":       true,
	"max_attempts":    true,
	"seed":            true,
	"max_concurrency": true,
	"metrics_file":    true,
	"log_level":       true,
	"debug":           true,
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"corpus_file":     DefaultCorpusFile,
		"annotated_file":  DefaultAnnotatedFile,
		"size":            DefaultSize,
		"max_depth":       DefaultMaxDepth,
		"max_attempts":    0,
		"seed":            0,
		"max_concurrency": DefaultMaxConcurrency,
		"log_level":       DefaultLogLevel,
		"debug":           false,
	}
}
