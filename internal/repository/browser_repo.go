package repository

import (
	"context"

	"github.com/user/feed-harvester/internal/harvest"
)

// BrowserSession is an open group feed page the harvest loop can drive.
type BrowserSession interface {
	harvest.Page
	// Close shuts the page and its browser down.
	Close()
}

// BrowserRepository opens browser sessions on group feed pages.
type BrowserRepository interface {
	// Open navigates a fresh browser to groupURL.
	Open(ctx context.Context, groupURL string) (BrowserSession, error)
}
