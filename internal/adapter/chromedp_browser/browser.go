package chromedp_browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/user/feed-harvester/internal/proxy"
	"github.com/user/feed-harvester/internal/repository"
	"go.uber.org/zap"
)

// DefaultCommentControlPath is the child-index path, below each
// ignore-dynamic container of a post, to the element that opens its comments.
var DefaultCommentControlPath = []int{0, 0, 0, 0, 0, 1, 1, 0, 0}

type Config struct {
	Headless           bool
	UserDataDir        string
	NavigateTimeout    time.Duration
	CommentControlPath []int
}

type Browser struct {
	cfg     Config
	proxies *proxy.Manager
	log     *zap.SugaredLogger
}

// NewBrowser creates a browser repository. Every Open starts its own Chrome
// process so that proxy and user agent can change per session.
func NewBrowser(cfg Config, proxies *proxy.Manager, log *zap.SugaredLogger) repository.BrowserRepository {
	if len(cfg.CommentControlPath) == 0 {
		cfg.CommentControlPath = DefaultCommentControlPath
	}
	if cfg.NavigateTimeout <= 0 {
		cfg.NavigateTimeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Browser{cfg: cfg, proxies: proxies, log: log}
}

func (b *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if ua := b.proxies.GetUserAgent(); ua != "" {
		opts = append(opts, chromedp.UserAgent(ua))
	}
	if p := b.proxies.GetProxy(); p != "" {
		opts = append(opts, chromedp.ProxyServer(p))
	}
	if b.cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(b.cfg.UserDataDir))
	}
	return opts
}

// Open launches Chrome, loads groupURL and returns the session. The browser
// lives until Close is called or ctx is cancelled.
func (b *Browser) Open(ctx context.Context, groupURL string) (repository.BrowserSession, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(b.log.Infof),
		chromedp.WithErrorf(b.log.Errorf),
	)
	cancel := func() {
		tabCancel()
		allocCancel()
	}

	// The first Run starts the browser and must not carry a timeout.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	s := &Session{ctx: tabCtx, cancel: cancel, controlPath: b.cfg.CommentControlPath}
	navCtx, navCancel := context.WithTimeout(ctx, b.cfg.NavigateTimeout)
	defer navCancel()
	err := s.run(navCtx,
		chromedp.Navigate(groupURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to load %s: %w", groupURL, err)
	}

	slog.Info("Browser session opened", "url", groupURL, "headless", b.cfg.Headless)
	return s, nil
}
