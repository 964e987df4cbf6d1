package types

import (
	"fmt"
	"time"
)

// DefaultSourceURL is the survey page the extractor's markup conventions
// were written against.
const DefaultSourceURL = "https://news.gallup.com/poll/1615/environment.aspx"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pollharvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for retrieving the source page.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the page to fetch (default DefaultSourceURL).
	URL string `json:"url" yaml:"url"`

	// MaxRetries bounds retries on HTTP 429 and 503 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// SnapshotDir, when set, receives a copy of every fetched page.
	SnapshotDir string `json:"snapshot_dir,omitempty" yaml:"snapshot_dir,omitempty"`
}

// BatchMode decides what one failed fragment does to the rest of a run.
type BatchMode string

const (
	// ModeFailFast aborts the run on the first failed fragment.
	ModeFailFast BatchMode = "fail-fast"
	// ModeBestEffort skips failed fragments and reports them with their index.
	ModeBestEffort BatchMode = "best-effort"
)

// GroupSlicing selects how grouped tables assign data cells to sub-headings.
type GroupSlicing string

const (
	// SlicingPerRow gives each sub-heading the cells of its own row.
	SlicingPerRow GroupSlicing = "per-row"
	// SlicingLegacy gives every sub-heading all cells of the group body
	// except the first. Kept to reproduce historical output.
	SlicingLegacy GroupSlicing = "legacy"
)

// DuplicatePolicy decides what happens when two cells in one row share a
// column label.
type DuplicatePolicy string

const (
	// DuplicateOverwrite keeps the later cell.
	DuplicateOverwrite DuplicatePolicy = "overwrite"
	// DuplicateStrict rejects the row.
	DuplicateStrict DuplicatePolicy = "strict"
)

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// Mode is fail-fast (default) or best-effort.
	Mode BatchMode `json:"mode" yaml:"mode"`

	// Workers is the number of fragments extracted concurrently.
	// Values below 2 extract sequentially.
	Workers int `json:"workers" yaml:"workers"`

	// GroupSlicing is per-row (default) or legacy.
	GroupSlicing GroupSlicing `json:"group_slicing" yaml:"group_slicing"`

	// DuplicateColumns is overwrite (default) or strict.
	DuplicateColumns DuplicatePolicy `json:"duplicate_columns" yaml:"duplicate_columns"`
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c ExtractionConfig) WithDefaults() ExtractionConfig {
	if c.Mode == "" {
		c.Mode = ModeFailFast
	}
	if c.GroupSlicing == "" {
		c.GroupSlicing = SlicingPerRow
	}
	if c.DuplicateColumns == "" {
		c.DuplicateColumns = DuplicateOverwrite
	}
	return c
}

// Validate rejects unrecognized option values. Empty values are valid and
// mean the default.
func (c ExtractionConfig) Validate() error {
	switch c.Mode {
	case "", ModeFailFast, ModeBestEffort:
	default:
		return fmt.Errorf("unsupported mode %q: use %s or %s", c.Mode, ModeFailFast, ModeBestEffort)
	}
	switch c.GroupSlicing {
	case "", SlicingPerRow, SlicingLegacy:
	default:
		return fmt.Errorf("unsupported group slicing %q: use %s or %s", c.GroupSlicing, SlicingPerRow, SlicingLegacy)
	}
	switch c.DuplicateColumns {
	case "", DuplicateOverwrite, DuplicateStrict:
	default:
		return fmt.Errorf("unsupported duplicate column policy %q: use %s or %s", c.DuplicateColumns, DuplicateOverwrite, DuplicateStrict)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// StoreConfig holds settings for the result store.
type StoreConfig struct {
	// Path is the SQLite database file (e.g. "data/pollharvest.db").
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}
