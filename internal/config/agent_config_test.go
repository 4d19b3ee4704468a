package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nrad-K/go-hh-agent/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
output_dir: "output"
user_agent: "Mozilla/5.0"
enable_headless: true
timeout_seconds: 30
delay_min_ms: 1000
delay_max_ms: 3000
headers:
  Accept-Language: "ru-RU,ru;q=0.9"
listing:
  search_url: "https://hh.ru/search/vacancy?text=golang"
  item_links_selector: "a[data-qa='serp-item__title']"
  next_page_selector: "a[data-qa='pager-next']"
  results_selector: "div[data-qa='vacancy-serp__results']"
  max_pages: 5
fields:
  title: { selector: "h1[data-qa='vacancy-title']" }
  company_name: { selector: "a[data-qa='vacancy-company-name']" }
  company_url: { selector: "a[data-qa='vacancy-company-name']", attr: "href" }
  salary: { selector: "span[data-qa='vacancy-salary-compensation-type-net']" }
  experience: { selector: "span[data-qa='vacancy-experience']" }
  employment: { selector: "p[data-qa='vacancy-view-employment-mode']" }
  schedule: { selector: "p[data-qa='work-schedule-by-days-text']" }
  location: { selector: "p[data-qa='vacancy-view-location']" }
  description: { selector: "div[data-qa='vacancy-description']" }
  skills: { selector: "li[data-qa='skills-element']" }
  contact_name: { selector: "p[data-qa='vacancy-contacts__fio']" }
  contact_email: { selector: "a[data-qa='vacancy-contacts__email']" }
  contact_phones: { selector: "p[data-qa='vacancy-contacts__phone']" }
  published_at: { selector: "p[data-qa='vacancy-creation-time-redesigned']" }
apply:
  already_applied: "div[data-qa='vacancy-response-link-view-topic']"
  survey_frame: "div[data-qa='task-body']"
  cover_letter: "textarea[data-qa='vacancy-response-popup-form-letter-input']"
  submit_button: "button[data-qa='vacancy-response-submit-popup']"
  dialog_close: "button[data-qa='bloko-modal-close']"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAgentConfig(t *testing.T) {
	cfg, err := config.LoadAgentConfig(writeConfig(t, validConfigYAML))

	require.NoError(t, err)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, 5, cfg.Listing.MaxPages)
	assert.Equal(t, 1000, cfg.DelayMinMs)
	assert.Equal(t, 3000, cfg.DelayMaxMs)
	assert.Equal(t, "a[data-qa='vacancy-company-name']", cfg.Fields.CompanyURL.Selector)
	assert.Equal(t, "href", cfg.Fields.CompanyURL.Attr)
}

func TestLoadAgentConfig_LedgerModeDefaultsToCumulative(t *testing.T) {
	cfg, err := config.LoadAgentConfig(writeConfig(t, validConfigYAML))

	require.NoError(t, err)
	assert.Equal(t, config.LedgerCumulative, cfg.LedgerMode)
}

func TestLoadAgentConfig_ExplicitLedgerMode(t *testing.T) {
	cfg, err := config.LoadAgentConfig(writeConfig(t, validConfigYAML+"ledger_mode: reset\n"))

	require.NoError(t, err)
	assert.Equal(t, config.LedgerReset, cfg.LedgerMode)
}

func TestLoadAgentConfig_InvalidLedgerMode(t *testing.T) {
	_, err := config.LoadAgentConfig(writeConfig(t, validConfigYAML+"ledger_mode: append\n"))

	assert.Error(t, err)
}

func TestLoadAgentConfig_DelayBoundsMustBeOrdered(t *testing.T) {
	broken := strings.Replace(validConfigYAML, "delay_min_ms: 1000", "delay_min_ms: 5000", 1)

	_, err := config.LoadAgentConfig(writeConfig(t, broken))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delay_min_ms")
}

func TestLoadAgentConfig_MissingFile(t *testing.T) {
	_, err := config.LoadAgentConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestLoadAgentConfig_MalformedYAML(t *testing.T) {
	_, err := config.LoadAgentConfig(writeConfig(t, "listing: [broken"))

	assert.Error(t, err)
}
