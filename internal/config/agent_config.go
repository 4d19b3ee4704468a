package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

type LedgerMode string

const (
	// LedgerCumulative merges newly ignored vacancies into the entries
	// written by earlier runs (deduplicated by id).
	LedgerCumulative LedgerMode = "cumulative"
	// LedgerReset starts the ignored ledger fresh on every run.
	LedgerReset LedgerMode = "reset"
)

// SelectorConfig describes how one field is pulled out of a page: a CSS
// selector, optionally an attribute to read instead of the text, optionally
// a regex applied to the matched text.
type SelectorConfig struct {
	Selector string `yaml:"selector" validate:"required,min=1"`
	Attr     string `yaml:"attr"`
	Regex    string `yaml:"regex"`
}

// ListingConfig configures the paginated search-result walk.
type ListingConfig struct {
	SearchURL         string `yaml:"search_url" validate:"required,url"`            // first results page
	ItemLinksSelector string `yaml:"item_links_selector" validate:"required,min=1"` // vacancy anchors on a results page
	NextPageSelector  string `yaml:"next_page_selector" validate:"required,min=1"`  // pagination affordance
	ResultsSelector   string `yaml:"results_selector" validate:"required,min=1"`    // results container waited for per page
	MaxPages          int    `yaml:"max_pages" validate:"min=0"`                    // 0 = walk until the last page
}

// FieldSelectors lists the detail-page fields. Every field is independently
// optional at extraction time; required here only means the selector must be
// configured.
type FieldSelectors struct {
	Title         SelectorConfig `yaml:"title" validate:"required"`
	CompanyName   SelectorConfig `yaml:"company_name" validate:"required"`
	CompanyURL    SelectorConfig `yaml:"company_url" validate:"required"`
	Salary        SelectorConfig `yaml:"salary" validate:"required"`
	Experience    SelectorConfig `yaml:"experience" validate:"required"`
	Employment    SelectorConfig `yaml:"employment" validate:"required"`
	Schedule      SelectorConfig `yaml:"schedule" validate:"required"`
	Location      SelectorConfig `yaml:"location" validate:"required"`
	Description   SelectorConfig `yaml:"description" validate:"required"`
	Skills        SelectorConfig `yaml:"skills" validate:"required"`
	ContactName   SelectorConfig `yaml:"contact_name" validate:"required"`
	ContactEmail  SelectorConfig `yaml:"contact_email" validate:"required"`
	ContactPhones SelectorConfig `yaml:"contact_phones" validate:"required"`
	PublishedAt   SelectorConfig `yaml:"published_at" validate:"required"`
}

// ApplySelectors are the page-state probes consulted by the apply pipeline,
// in the order the decision table checks them.
type ApplySelectors struct {
	AlreadyApplied string `yaml:"already_applied" validate:"required,min=1"`
	SurveyFrame    string `yaml:"survey_frame" validate:"required,min=1"`
	CoverLetter    string `yaml:"cover_letter" validate:"required,min=1"`
	SubmitButton   string `yaml:"submit_button" validate:"required,min=1"`
	DialogClose    string `yaml:"dialog_close" validate:"required,min=1"`
}

// AgentConfig bundles the whole runtime configuration.
type AgentConfig struct {
	OutputDir      string            `yaml:"output_dir" validate:"required,min=1"`
	UserAgent      string            `yaml:"user_agent" validate:"required,min=1"`
	EnableHeadless bool              `yaml:"enable_headless"`
	TimeoutSeconds int               `yaml:"timeout_seconds" validate:"min=1,max=300"`
	DelayMinMs     int               `yaml:"delay_min_ms" validate:"min=0"`
	DelayMaxMs     int               `yaml:"delay_max_ms" validate:"min=0"`
	LedgerMode     LedgerMode        `yaml:"ledger_mode" validate:"omitempty,oneof=cumulative reset"`
	Headers        map[string]string `yaml:"headers"`
	Listing        ListingConfig     `yaml:"listing" validate:"required"`
	Fields         FieldSelectors    `yaml:"fields" validate:"required"`
	Apply          ApplySelectors    `yaml:"apply" validate:"required"`
}

var validate = validator.New()

// LoadAgentConfig reads and validates the YAML configuration.
func LoadAgentConfig(path string) (AgentConfig, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return AgentConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AgentConfig
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return AgentConfig{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.LedgerMode == "" {
		cfg.LedgerMode = LedgerCumulative
	}

	if err := validate.Struct(cfg); err != nil {
		return AgentConfig{}, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.DelayMinMs > cfg.DelayMaxMs {
		return AgentConfig{}, fmt.Errorf("delay_min_ms (%d) must not exceed delay_max_ms (%d)", cfg.DelayMinMs, cfg.DelayMaxMs)
	}

	return cfg, nil
}
