package harvest

import "context"

// PostRef identifies a post container in the most recent enumeration of the
// feed. Index is only valid until the next call to Page.Posts.
type PostRef struct {
	Index  int
	Author string
}

// Page is the set of page capabilities the harvest loop drives. Lookups that
// find nothing are not errors: OpenComments and CloseDialog report false.
// Errors mean the page itself is unusable.
type Page interface {
	// Intercept starts feeding the page's query calls to in.
	Intercept(ctx context.Context, in *Interceptor) error
	// Posts lists the post containers that expose an author heading.
	Posts(ctx context.Context) ([]PostRef, error)
	// OpenComments triggers the comment view of post.
	OpenComments(ctx context.Context, post PostRef) (bool, error)
	// CloseDialog dismisses an open modal dialog.
	CloseDialog(ctx context.Context) (bool, error)
	// Scroll scrolls the page down by px pixels.
	Scroll(ctx context.Context, px int) error
}
