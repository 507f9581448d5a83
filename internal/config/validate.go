package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Validate checks settings shared by every command
func (c *Config) Validate() error {
	if c.Size < 0 {
		return fmt.Errorf("size must not be negative, got %d", c.Size)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative, got %d", c.MaxAttempts)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", c.MaxConcurrency)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return nil
}

// ValidateAnnotate checks the settings the annotate stage needs
func (c *Config) ValidateAnnotate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required\nHint: set --database-url or %sDATABASE_URL", EnvPrefix)
	}
	if c.CorpusFile == "" {
		return fmt.Errorf("corpus_file is required")
	}
	if c.AnnotatedFile == "" {
		return fmt.Errorf("annotated_file is required")
	}
	return nil
}
