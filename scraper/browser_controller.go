package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"kasus_scraper/config"
	"kasus_scraper/logging"
	"kasus_scraper/models"
)

const (
	nameField       = "Name"
	cityField       = "Ort"
	postalCodeField = "Postleitzahl"
	submitSelector  = "input[type='submit']"
)

// BrowserController drives the search form in a persistent Chromium context.
type BrowserController struct {
	cfg config.BrowserConfig

	pw          *playwright.Playwright
	context     playwright.BrowserContext
	page        playwright.Page
	mu          sync.Mutex
	initialized bool

	pageCount int
}

func NewBrowserController(cfg config.BrowserConfig) *BrowserController {
	return &BrowserController{cfg: cfg}
}

func (c *BrowserController) ensureBrowser() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	var err error
	c.pw, err = playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	userDataDir := c.cfg.UserDataDir
	if userDataDir == "" {
		cwd, _ := os.Getwd()
		userDataDir = filepath.Join(cwd, "browser_data")
	}
	opts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(c.cfg.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}
	if c.cfg.UserAgent != "" {
		opts.UserAgent = playwright.String(c.cfg.UserAgent)
	}
	c.context, err = c.pw.Chromium.LaunchPersistentContext(userDataDir, opts)
	if err != nil {
		c.pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	c.page, err = c.context.NewPage()
	if err != nil {
		c.context.Close()
		c.pw.Stop()
		return fmt.Errorf("failed to create page: %w", err)
	}
	c.page.SetDefaultTimeout(float64(c.cfg.NavTimeout.Milliseconds()))

	c.initialized = true
	return nil
}

// Close releases the page, the browser context and the playwright driver.
// Safe to call more than once.
func (c *BrowserController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.page != nil {
		c.page.Close()
		c.page = nil
	}
	if c.context != nil {
		c.context.Close()
		c.context = nil
	}
	if c.pw != nil {
		c.pw.Stop()
		c.pw = nil
	}
	c.initialized = false
}

func (c *BrowserController) LoadSearchForm(ctx context.Context) error {
	if err := c.ensureBrowser(); err != nil {
		return fmt.Errorf("%w: %v", ErrNavigation, err)
	}

	_, err := c.page.Goto(c.cfg.SearchURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(c.cfg.NavTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, c.cfg.SearchURL, err)
	}
	return c.settle(ctx, c.cfg.LoadSettle)
}

func (c *BrowserController) SetResultPageSize(n int) bool {
	if c.page == nil {
		return false
	}
	radio := c.page.Locator(fmt.Sprintf("input[type='radio'][value='%d']", n)).First()
	if visible, _ := radio.IsVisible(); !visible {
		return false
	}
	if err := radio.Check(); err != nil {
		logging.Debugf("Page size radio %d: %v", n, err)
		return false
	}
	return true
}

func (c *BrowserController) FillForm(criteria models.SearchCriteria) error {
	if c.page == nil {
		return fmt.Errorf("%w: search form not loaded", ErrElementNotFound)
	}

	fields := []struct{ name, value string }{
		{nameField, criteria.Name},
		{cityField, criteria.City},
		{postalCodeField, criteria.PostalCode},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		input := c.page.Locator(fmt.Sprintf("[name='%s']", f.name)).First()
		if n, _ := input.Count(); n == 0 {
			logging.Debugf("Form field %s not present, skipping", f.name)
			continue
		}
		if err := input.Fill(f.value); err != nil {
			return fmt.Errorf("fill %s: %w", f.name, err)
		}
	}

	for _, industry := range criteria.Industries {
		box := c.page.Locator(fmt.Sprintf("input[type='checkbox'][value=%q]", industry)).First()
		if n, _ := box.Count(); n == 0 {
			logging.Debugf("Industry checkbox %q not present, skipping", industry)
			continue
		}
		if err := box.Check(); err != nil {
			logging.Debugf("Industry checkbox %q: %v", industry, err)
		}
	}
	return nil
}

func (c *BrowserController) Submit(ctx context.Context) error {
	if c.page == nil {
		return fmt.Errorf("%w: search form not loaded", ErrElementNotFound)
	}

	button := c.page.Locator(submitSelector).First()
	if err := button.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(c.cfg.NavTimeout.Milliseconds())),
	}); err != nil {
		c.saveDebug()
		if errors.Is(err, playwright.ErrTimeout) {
			return fmt.Errorf("%w: waiting for submit button: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: submit button: %v", ErrElementNotFound, err)
	}
	if err := button.Click(); err != nil {
		c.saveDebug()
		return fmt.Errorf("%w: click submit: %v", ErrElementNotFound, err)
	}

	if err := c.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(float64(c.cfg.NavTimeout.Milliseconds())),
	}); err != nil {
		c.saveDebug()
		return fmt.Errorf("%w: result page: %v", ErrTimeout, err)
	}
	if err := c.settle(ctx, c.cfg.SubmitSettle); err != nil {
		return err
	}

	c.archive()
	return nil
}

func (c *BrowserController) VisibleText() (string, error) {
	if c.page == nil {
		return "", fmt.Errorf("%w: no page", ErrElementNotFound)
	}
	text, err := c.page.Locator("body").InnerText()
	if err != nil {
		return "", fmt.Errorf("read page text: %w", err)
	}
	return text, nil
}

// settle waits d plus up to 20% jitter so the page can finish rendering.
func (c *BrowserController) settle(ctx context.Context, d time.Duration) error {
	if d > 0 {
		d += time.Duration(rand.Int63n(int64(d)/5 + 1))
	}
	return sleepCtx(ctx, d)
}

// archive stores the result page HTML when an archive directory is set.
func (c *BrowserController) archive() {
	if c.cfg.ArchiveDir == "" {
		return
	}
	content, err := c.page.Content()
	if err != nil {
		log.Printf("Archive: failed to read page: %v", err)
		return
	}
	if err := os.MkdirAll(c.cfg.ArchiveDir, 0755); err != nil {
		log.Printf("Archive: %v", err)
		return
	}
	c.pageCount++
	name := fmt.Sprintf("page_%s_%04d.html", time.Now().Format("20060102_150405"), c.pageCount)
	if err := os.WriteFile(filepath.Join(c.cfg.ArchiveDir, name), []byte(content), 0644); err != nil {
		log.Printf("Archive: %v", err)
	}
}

func (c *BrowserController) saveDebug() {
	dir := c.cfg.DebugDir
	if dir == "" {
		dir = "."
	}
	os.MkdirAll(dir, 0755)
	content, _ := c.page.Content()
	c.page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(filepath.Join(dir, "debug_screenshot.png"))})
	os.WriteFile(filepath.Join(dir, "debug_page.html"), []byte(content), 0644)
	log.Printf("Saved debug files to %s", dir)
}
