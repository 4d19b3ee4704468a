package infra

import (
	"fmt"
	"net/url"

	"github.com/nrad-K/go-hh-agent/internal/config"
	"github.com/playwright-community/playwright-go"
)

// BrowserClient is the browser-automation interface consumed by the
// pipelines. A single page is owned by one run; no component navigates it
// concurrently.
type BrowserClient interface {
	Navigate(url string) error
	GetHTML() (string, error)
	CurrentURL() (*url.URL, error)
	WaitVisible(selector string) error
	ExtractText(selector string) ([]string, error)
	ExtractAttribute(selector, attr string) ([]string, error)
	Exists(selector string) (bool, error)
	Click(selector string) error
	Close() error
}

type browserClient struct {
	pw      *playwright.Playwright
	cfg     *config.AgentConfig
	browser playwright.Browser
	page    playwright.Page
	context playwright.BrowserContext
}

// NewBrowserClient starts Playwright and opens a single browser context with
// the configured user agent and headers. Static resources are blocked to keep
// page loads cheap.
func NewBrowserClient(cfg *config.AgentConfig) (*browserClient, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.EnableHeadless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		ExtraHttpHeaders: cfg.Headers,
		UserAgent:        &cfg.UserAgent,
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	if err := setupResourceBlocking(context); err != nil {
		return nil, fmt.Errorf("failed to set up resource blocking: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &browserClient{
		pw:      pw,
		browser: browser,
		context: context,
		page:    page,
		cfg:     cfg,
	}, nil
}

func setupResourceBlocking(context playwright.BrowserContext) error {
	return context.Route("**/*.{png,jpg,jpeg,gif,svg,woff,woff2,ttf,eot,otf}", func(route playwright.Route) {
		route.Abort()
	})
}

func (b *browserClient) timeoutMs() float64 {
	return float64(b.cfg.TimeoutSeconds * 1000)
}

// Navigate moves the page to the given URL and waits for DOM content.
func (b *browserClient) Navigate(url string) error {
	if _, err := b.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(b.timeoutMs()),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// GetHTML returns the full HTML of the current page.
func (b *browserClient) GetHTML() (string, error) {
	if err := b.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	}); err != nil {
		return "", fmt.Errorf("failed to wait for page load: %w", err)
	}
	html, err := b.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

// CurrentURL returns the parsed URL of the current page.
func (b *browserClient) CurrentURL() (*url.URL, error) {
	rawURL := b.page.URL()
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current URL: %w", err)
	}
	return parsed, nil
}

// WaitVisible waits until the selector's first match is attached. Callers
// that tolerate slow rendering treat a timeout as "nothing there".
func (b *browserClient) WaitVisible(selector string) error {
	locator := b.page.Locator(selector).First()
	if err := locator.WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(b.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("selector %s did not become visible: %w", selector, err)
	}
	return nil
}

// ExtractText returns the text content of every element matching selector.
// An empty result is not an error.
func (b *browserClient) ExtractText(selector string) ([]string, error) {
	entries, err := b.page.Locator(selector).All()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", selector, err)
	}

	texts := make([]string, 0, len(entries))
	for _, entry := range entries {
		text, err := entry.TextContent()
		if err != nil {
			return nil, fmt.Errorf("failed to read text content: %w", err)
		}
		texts = append(texts, text)
	}

	return texts, nil
}

// ExtractAttribute returns the given attribute of every element matching
// selector, skipping empty values.
func (b *browserClient) ExtractAttribute(selector string, attr string) ([]string, error) {
	entries, err := b.page.Locator(selector).All()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", selector, err)
	}

	values := make([]string, 0, len(entries))
	for _, entry := range entries {
		value, err := entry.GetAttribute(attr)
		if err != nil {
			return nil, fmt.Errorf("failed to read attribute %s: %w", attr, err)
		}
		if value != "" {
			values = append(values, value)
		}
	}

	return values, nil
}

// Exists reports whether at least one element matches selector right now,
// without waiting.
func (b *browserClient) Exists(selector string) (bool, error) {
	count, err := b.page.Locator(selector).Count()
	if err != nil {
		return false, fmt.Errorf("failed to count elements for %s: %w", selector, err)
	}
	return count > 0, nil
}

// Click waits for the selector's first match and clicks it.
func (b *browserClient) Click(selector string) error {
	locator := b.page.Locator(selector).First()
	if err := locator.WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(b.timeoutMs()),
	}); err != nil {
		return fmt.Errorf("selector %s never became clickable: %w", selector, err)
	}
	if err := locator.Click(); err != nil {
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}
	return nil
}

// Close shuts down the context, browser and Playwright instance.
func (b *browserClient) Close() error {
	if err := b.context.Close(); err != nil {
		return fmt.Errorf("failed to close browser context: %w", err)
	}
	if err := b.browser.Close(); err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	if err := b.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}
