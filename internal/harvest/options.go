package harvest

import (
	"fmt"
	"time"
)

// WaitMode selects how the loop waits after opening a post's comments.
type WaitMode string

const (
	// WaitFixed sleeps CommentWait and moves on whether or not the triggered
	// call has completed.
	WaitFixed WaitMode = "fixed"
	// WaitSignal returns as soon as a capture is classified, or after
	// CaptureTimeout.
	WaitSignal WaitMode = "signal"
)

type Options struct {
	Scrolls             int
	ScrollStep          int
	ScrollDispatchDelay time.Duration
	SettleDelay         time.Duration
	CommentWait         time.Duration
	WaitMode            WaitMode
	CaptureTimeout      time.Duration
}

func DefaultOptions() Options {
	return Options{
		Scrolls:             50,
		ScrollStep:          800,
		ScrollDispatchDelay: 400 * time.Millisecond,
		SettleDelay:         1000 * time.Millisecond,
		CommentWait:         1000 * time.Millisecond,
		WaitMode:            WaitFixed,
		CaptureTimeout:      5 * time.Second,
	}
}

func (o Options) Validate() error {
	if o.Scrolls < 0 {
		return fmt.Errorf("scroll budget must not be negative, got %d", o.Scrolls)
	}
	switch o.WaitMode {
	case WaitFixed, WaitSignal:
	default:
		return fmt.Errorf("unknown wait mode %q", o.WaitMode)
	}
	return nil
}
