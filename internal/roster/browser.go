package roster

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// BrowserFetcher renders roster pages in a headless browser. It logs in once
// before the first fetch when a username is set.
type BrowserFetcher struct {
	sync.Mutex
	playwright.BrowserContext

	Username  string
	Password  string
	LoginPath string

	Logger *slog.Logger

	loggedIn bool
	stop     func() error
}

// LaunchBrowserFetcher starts chromium with baseURL as the base of relative
// page paths. Close stops the browser.
func LaunchBrowserFetcher(baseURL, username, password string, logger *slog.Logger) (*BrowserFetcher, error) {
	startup := time.Now()

	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{})
	if err != nil {
		pw.Stop()
		return nil, err
	}

	contextOpts := playwright.BrowserNewContextOptions{}
	if baseURL != "" {
		contextOpts.BaseURL = playwright.String(baseURL)
	}

	context, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, err
	}

	logger.Info("launched playwright browser", "dur", time.Since(startup).String())

	return &BrowserFetcher{
		BrowserContext: context,
		Username:       username,
		Password:       password,
		LoginPath:      "/user/login",
		Logger:         logger,
		stop: func() error {
			context.Close()
			browser.Close()
			return pw.Stop()
		},
	}, nil
}

func (f *BrowserFetcher) Close() error {
	if f.stop == nil {
		return nil
	}
	return f.stop()
}

func (f *BrowserFetcher) FetchPage(ctx context.Context, url string) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.Lock()
	defer f.Unlock()

	if f.Username != "" && !f.loggedIn {
		if err := f.login(); err != nil {
			return nil, err
		}
		f.loggedIn = true
		f.Logger.Info("logged in", "user", f.Username)
	}

	page, err := f.NewPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	_, err = page.Goto(url)
	if err != nil {
		return nil, err
	}

	content, err := page.Content()
	if err != nil {
		return nil, err
	}

	return bytes.NewBufferString(content), nil
}

func (f *BrowserFetcher) login() error {
	page, err := f.NewPage()
	if err != nil {
		return err
	}
	defer page.Close()

	_, err = page.Goto(f.LoginPath)
	if err != nil {
		return err
	}

	if err := page.Locator("#edit-name").First().Fill(f.Username); err != nil {
		return err
	}
	if err := page.Locator("#edit-pass").First().Fill(f.Password); err != nil {
		return err
	}

	return page.Locator("#edit-submit").Click()
}
