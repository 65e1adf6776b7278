// Package notify pushes text messages through notification services (Bark, Gotify, WeCom).
//
// A Channel makes a single delivery attempt. Send adds the retry policy shared by every
// channel, and a Dispatcher falls back from one channel to the next.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/fundpush"
	"github.com/rs/zerolog"
)

// ErrMisconfigured is returned by a Channel missing mandatory settings. It is never retried.
var ErrMisconfigured = errors.New("channel misconfigured")

// Channel delivers messages to one notification service.
type Channel interface {
	// Name identifies the channel in logs and outcomes.
	Name() string
	// Post makes a single attempt to deliver the message.
	Post(ctx context.Context, title, body string) error
}

// Outcome is the result of sending one message through one channel.
type Outcome struct {
	Channel  string
	OK       bool
	Attempts int
	Err      error // last error when not OK
}

// Options configure Send.
type Options struct {
	MaxRetries int           // attempts after the first one
	RetryDelay time.Duration // between two attempts
	Log        zerolog.Logger
	Events     *fundpush.Events // optional
}

// Send posts the message through ch, retrying up to opts.MaxRetries times.
// It never panics.
func Send(ctx context.Context, ch Channel, title, body string, opts Options) Outcome {
	log := opts.Log.With().Str("channel", ch.Name()).Logger()
	out := Outcome{Channel: ch.Name()}
	for {
		out.Attempts++
		err := post(ctx, ch, title, body)
		if err == nil {
			out.OK, out.Err = true, nil
			log.Debug().Int("attempt", out.Attempts).Str("title", title).Msg("sent")
			opts.Events.Successf("%s: sent %s", ch.Name(), short(title))
			return out
		}
		out.Err = err
		if errors.Is(err, ErrMisconfigured) {
			log.Debug().Err(err).Msg("not retrying")
			opts.Events.Errorf("%s: %v", ch.Name(), err)
			return out
		}
		if out.Attempts > opts.MaxRetries {
			log.Debug().Err(err).Int("attempts", out.Attempts).Msg("giving up")
			opts.Events.Errorf("%s: failed to send %s: %v", ch.Name(), short(title), err)
			return out
		}
		log.Debug().Err(err).Int("attempt", out.Attempts).Dur("delay", opts.RetryDelay).Msg("send failed, retrying")
		opts.Events.Warnf("%s: attempt %d/%d failed: %v", ch.Name(), out.Attempts, opts.MaxRetries+1, err)

		select {
		case <-time.After(opts.RetryDelay):
		case <-ctx.Done():
			out.Err = ctx.Err()
			return out
		}
	}
}

// post calls ch.Post turning a panic into an error.
func post(ctx context.Context, ch Channel, title, body string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s panicked: %v", ch.Name(), p)
		}
	}()
	return ch.Post(ctx, title, body)
}

// short truncates a title for log messages.
func short(title string) string {
	r := []rune(title)
	if len(r) <= 20 {
		return title
	}
	return string(r[:20]) + "..."
}
