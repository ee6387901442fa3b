package chromedp_browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/user/feed-harvester/internal/harvest"
)

const postSelector = `div[data-pagelet^="GroupFeed"] > div`

// openCommentsJS clicks, inside post %d, the element found by following the
// child path %s from every ignore-dynamic container.
const openCommentsJS = `(() => {
	const post = document.querySelectorAll('div[data-pagelet^="GroupFeed"] > div')[%d];
	if (!post) return false;
	const path = %s;
	let clicked = false;
	for (const div of post.getElementsByTagName('div')) {
		if (div.getAttribute('data-visualcompletion') !== 'ignore-dynamic') continue;
		let el = div;
		for (const i of path) {
			el = el && el.children[i];
		}
		if (el) {
			el.click();
			clicked = true;
		}
	}
	return clicked;
})()`

const closeDialogJS = `(() => {
	const button = document.querySelector('div[aria-label="Close"]');
	if (!button) return false;
	button.click();
	return true;
})()`

// Session is one browser tab showing a group feed.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	controlPath []int
	listener    *listener
}

var _ harvest.Page = (*Session)(nil)

// run executes actions on the tab, aborting when either the tab or ctx ends.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (s *Session) Intercept(ctx context.Context, in *harvest.Interceptor) error {
	s.listener = newListener(s.ctx, in)
	chromedp.ListenTarget(s.ctx, s.listener.onEvent)
	return s.run(ctx, network.Enable())
}

func (s *Session) Posts(ctx context.Context) ([]harvest.PostRef, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, err
	}
	return FindPosts(html)
}

func (s *Session) OpenComments(ctx context.Context, post harvest.PostRef) (bool, error) {
	path, err := json.Marshal(s.controlPath)
	if err != nil {
		return false, err
	}
	var clicked bool
	if err := s.run(ctx, chromedp.Evaluate(fmt.Sprintf(openCommentsJS, post.Index, path), &clicked)); err != nil {
		return false, err
	}
	return clicked, nil
}

func (s *Session) CloseDialog(ctx context.Context) (bool, error) {
	var closed bool
	if err := s.run(ctx, chromedp.Evaluate(closeDialogJS, &closed)); err != nil {
		return false, err
	}
	if !closed {
		slog.Debug("No dialog to close")
	}
	return closed, nil
}

func (s *Session) Scroll(ctx context.Context, px int) error {
	return s.run(ctx, chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", px), nil))
}

// Close shuts the tab and browser down and waits for in-flight captures.
func (s *Session) Close() {
	s.cancel()
	if s.listener != nil {
		s.listener.stop()
	}
}

// FindPosts lists the post containers of a feed snapshot that carry an author
// heading. Index is the position among all containers, as seen by the page.
func FindPosts(html string) ([]harvest.PostRef, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page html: %w", err)
	}
	var posts []harvest.PostRef
	doc.Find(postSelector).Each(func(i int, s *goquery.Selection) {
		author := s.Find("h2").First().Text()
		if author == "" {
			return
		}
		posts = append(posts, harvest.PostRef{Index: i, Author: strings.TrimSpace(author)})
	})
	return posts, nil
}
