package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Root of the document tree to scan.
	Root string

	// External toolchain
	LatexCmd  string
	BibtexCmd string

	// Per-invocation timeout for external tools. Zero means no timeout,
	// matching the original behavior.
	PassTimeout time.Duration

	// Structural verification of produced PDFs (open and require a page)
	// in addition to the existence check.
	VerifyPDF bool

	// Report artifacts
	ReportDir string

	// Preview server
	Port   string
	APIKey string
}

func Load() Config {
	cfg := Config{
		Root: envOr("TEXBUILD_ROOT", "."),

		LatexCmd:  envOr("TEXBUILD_LATEX", "pdflatex"),
		BibtexCmd: envOr("TEXBUILD_BIBTEX", "bibtex"),

		PassTimeout: envDuration("TEXBUILD_PASS_TIMEOUT", 0),

		VerifyPDF: envBool("TEXBUILD_VERIFY_PDF", true),

		ReportDir: os.Getenv("TEXBUILD_REPORT_DIR"),

		Port:   envOr("TEXBUILD_PORT", "8077"),
		APIKey: os.Getenv("TEXBUILD_API_KEY"),
	}

	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.PassTimeout < 0 {
		cfg.PassTimeout = 0
	}

	return cfg
}

func (c Config) Validate() error {
	if c.LatexCmd == "" {
		return fmt.Errorf("TEXBUILD_LATEX must not be empty")
	}
	if c.BibtexCmd == "" {
		return fmt.Errorf("TEXBUILD_BIBTEX must not be empty")
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("root directory %s: %w", c.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", c.Root)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
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
