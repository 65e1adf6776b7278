package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/etnz/fundpush"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// fakeChannel fails its first fails posts, then succeeds.
type fakeChannel struct {
	name  string
	fails int
	err   error
	posts []string
}

func (f *fakeChannel) Name() string { return f.name }
func (f *fakeChannel) Post(ctx context.Context, title, body string) error {
	f.posts = append(f.posts, title)
	if len(f.posts) <= f.fails {
		if f.err != nil {
			return f.err
		}
		return fmt.Errorf("attempt %d failed", len(f.posts))
	}
	return nil
}

type panicChannel struct{}

func (panicChannel) Name() string                                   { return "panic" }
func (panicChannel) Post(ctx context.Context, title, body string) error { panic("nil map") }

func opts(retries int) Options {
	return Options{MaxRetries: retries, RetryDelay: time.Millisecond, Log: zerolog.Nop()}
}

func TestSend(t *testing.T) {
	tests := []struct {
		name         string
		ch           Channel
		retries      int
		wantOK       bool
		wantAttempts int
	}{
		{"first attempt", &fakeChannel{name: "a"}, 3, true, 1},
		{"after retries", &fakeChannel{name: "a", fails: 3}, 3, true, 4},
		{"retries exhausted", &fakeChannel{name: "a", fails: 10}, 3, false, 4},
		{"no retry", &fakeChannel{name: "a", fails: 1}, 0, false, 1},
		{"misconfigured", &fakeChannel{name: "a", fails: 10, err: ErrMisconfigured}, 3, false, 1},
		{"panic", panicChannel{}, 1, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Send(context.Background(), tt.ch, "title", "body", opts(tt.retries))
			assert.Equal(t, tt.wantOK, out.OK)
			assert.Equal(t, tt.wantAttempts, out.Attempts)
			assert.Equal(t, tt.ch.Name(), out.Channel)
			if tt.wantOK {
				assert.NoError(t, out.Err)
			} else {
				assert.Error(t, out.Err)
			}
		})
	}
}

func TestSend_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := opts(5)
	o.RetryDelay = time.Hour
	out := Send(ctx, &fakeChannel{name: "a", fails: 10}, "t", "b", o)
	assert.False(t, out.OK)
	assert.Equal(t, 1, out.Attempts)
	assert.True(t, errors.Is(out.Err, context.Canceled))
}

func TestSend_Events(t *testing.T) {
	events := fundpush.NewEvents(zerolog.Nop())
	o := opts(1)
	o.Events = events
	Send(context.Background(), &fakeChannel{name: "bark", fails: 1}, "NAV report[1/1]", "b", o)
	events.Close()

	var got []fundpush.Severity
	for e := range events.C() {
		got = append(got, e.Severity)
	}
	assert.Equal(t, []fundpush.Severity{fundpush.Warning, fundpush.Success}, got)
}

// At info level, attempts are only reported through the events, never logged.
func TestSend_LogsOnlyAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)
	events := fundpush.NewEvents(log)
	o := opts(1)
	o.Log = log
	o.Events = events

	out := Send(context.Background(), &fakeChannel{name: "a", fails: 10}, "title", "body", o)
	events.Close()
	var got []fundpush.Event
	for ev := range events.C() {
		got = append(got, ev)
	}

	assert.False(t, out.OK)
	assert.Len(t, got, 2)
	assert.Empty(t, buf.String())
}
