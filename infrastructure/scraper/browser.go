package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/kingjawir/marketplace/sdk/logger"
)

const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	cardPollAttempts = 20
	cardPollInterval = 500 * time.Millisecond
	maxScrolls       = 8
	scrollSettle     = 800 * time.Millisecond
)

type BrowserConfig struct {
	ChromeBin       string        `env:"CHROME_BIN"`
	Headless        bool          `env:"SCRAPER_HEADLESS" default:"true"`
	PageLoadTimeout time.Duration `env:"SCRAPER_PAGE_LOAD_TIMEOUT" default:"10s"`
	RenderWait      time.Duration `env:"SCRAPER_RENDER_WAIT" default:"2s"`
}

// Target describes a search page to render. CountJS returns how many
// product cards are currently in the DOM.
type Target struct {
	URL     string
	CountJS string
	Limit   int
}

// Renderer returns the fully rendered HTML of a target page.
type Renderer interface {
	Render(ctx context.Context, target Target) (string, error)
}

// Browser is a lazily launched headless Chrome shared by all requests.
type Browser struct {
	log *logger.Logger
	cfg BrowserConfig

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func NewBrowser(log *logger.Logger, cfg BrowserConfig) *Browser {
	return &Browser{log: log, cfg: cfg}
}

func (b *Browser) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New().
		Headless(b.cfg.Headless).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("lang", "id-ID").
		Set("accept-lang", "id-ID").
		Set("disable-gpu").
		Set("window-size", "1920,1080").
		Set("user-agent", UserAgent)
	if b.cfg.ChromeBin != "" {
		l = l.Bin(b.cfg.ChromeBin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	b.log.Info("browser launched", "headless", b.cfg.Headless, "bin", b.cfg.ChromeBin)
	b.launcher, b.browser = l, browser
	return browser, nil
}

// Render opens the target in a fresh tab, waits for product cards, and
// scrolls until Limit cards exist or the count stops growing.
func (b *Browser) Render(ctx context.Context, target Target) (string, error) {
	browser, err := b.connect()
	if err != nil {
		return "", err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("open tab: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: UserAgent, AcceptLanguage: "id-ID"}); err != nil {
		return "", fmt.Errorf("set user agent: %w", err)
	}
	if err := page.Timeout(b.cfg.PageLoadTimeout).Navigate(target.URL); err != nil {
		return "", fmt.Errorf("navigate %s: %w", target.URL, err)
	}
	if err := page.Timeout(b.cfg.PageLoadTimeout).WaitLoad(); err != nil {
		b.log.WarnContext(ctx, "page load not confirmed", "url", target.URL, "error", err)
	}
	if err := sleep(ctx, b.cfg.RenderWait); err != nil {
		return "", err
	}

	count := 0
	for range cardPollAttempts {
		if count = cardCount(page, target.CountJS); count > 0 {
			break
		}
		if err := sleep(ctx, cardPollInterval); err != nil {
			return "", err
		}
	}
	if count == 0 {
		b.log.WarnContext(ctx, "no product cards appeared", "url", target.URL)
	}

	stable := 0
	for range maxScrolls {
		if target.Limit > 0 && count >= target.Limit {
			break
		}
		_, _ = page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
		if err := sleep(ctx, scrollSettle); err != nil {
			return "", err
		}

		next := cardCount(page, target.CountJS)
		if next == count && next > 0 {
			if stable++; stable >= 2 {
				break
			}
			continue
		}
		stable, count = 0, next
	}
	_, _ = page.Eval(`() => window.scrollTo(0, 0)`)

	content, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	b.log.DebugContext(ctx, "page rendered", "url", target.URL, "cards", count, "bytes", len(content))
	return content, nil
}

// Close shuts the browser down if it was ever launched.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.launcher.Kill()
	b.browser, b.launcher = nil, nil
	return err
}

func cardCount(page *rod.Page, js string) int {
	res, err := page.Eval(js)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
