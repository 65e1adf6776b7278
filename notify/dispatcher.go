package notify

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/etnz/fundpush"
	"golang.org/x/time/rate"
)

// priority is the order in which known channels are tried.
var priority = map[string]int{"bark": 0, "gotify": 1, "wecom": 2}

func rank(ch Channel) int {
	if p, ok := priority[ch.Name()]; ok {
		return p
	}
	return len(priority)
}

// ReportOutcome is the result of delivering every chunk of a report.
type ReportOutcome struct {
	Key       string
	OK        bool
	Chunks    int
	Delivered int       // chunks delivered before success or the first failure
	Outcomes  []Outcome // every channel attempt, in order
}

// Dispatcher delivers messages through the first channel that accepts them.
type Dispatcher struct {
	Channels []Channel // enabled channels, tried in Bark, Gotify, WeCom order
	Options  Options
	Limiter  *rate.Limiter // paces successive sends, nil for no pacing
}

// NewDispatcher returns a Dispatcher over channels, waiting at least pacing between two sends.
func NewDispatcher(channels []Channel, opts Options, pacing time.Duration) *Dispatcher {
	sorted := slices.Clone(channels)
	slices.SortStableFunc(sorted, func(a, b Channel) int { return rank(a) - rank(b) })
	d := &Dispatcher{Channels: sorted, Options: opts}
	if pacing > 0 {
		d.Limiter = rate.NewLimiter(rate.Every(pacing), 1)
	}
	return d
}

// FromConfig returns the enabled channels of c, in priority order.
func FromConfig(c *fundpush.Config, client *http.Client) []Channel {
	var channels []Channel
	if c.Bark.Enabled {
		channels = append(channels, &Bark{URL: c.Bark.URL, Token: c.Bark.Token, Client: client})
	}
	if c.Gotify.Enabled {
		channels = append(channels, &Gotify{URL: c.Gotify.URL, Token: c.Gotify.Token, Priority: c.Gotify.Priority, Client: client})
	}
	if c.WeCom.Enabled {
		channels = append(channels, &WeCom{URL: c.WeCom.URL, CorpID: c.WeCom.CorpID, AgentID: c.WeCom.AgentID, Secret: c.WeCom.Secret, Client: client})
	}
	return channels
}

// Deliver sends one message, trying the channels in order until one succeeds.
func (d *Dispatcher) Deliver(ctx context.Context, title, body string) (bool, []Outcome) {
	if len(d.Channels) == 0 {
		return false, nil
	}
	if d.Limiter != nil {
		if err := d.Limiter.Wait(ctx); err != nil {
			return false, []Outcome{{Err: err}}
		}
	}
	var outcomes []Outcome
	for _, ch := range d.Channels {
		out := Send(ctx, ch, title, body, d.Options)
		outcomes = append(outcomes, out)
		if out.OK {
			return true, outcomes
		}
		d.Options.Log.Debug().Str("channel", ch.Name()).Msg("falling back to next channel")
	}
	return false, outcomes
}

// Dispatch delivers the chunks of report key in order, titled prefix[i/n].
// It stops at the first chunk that no channel could deliver.
func (d *Dispatcher) Dispatch(ctx context.Context, key, prefix string, chunks []fundpush.Chunk) ReportOutcome {
	res := ReportOutcome{Key: key, Chunks: len(chunks)}
	if len(d.Channels) == 0 {
		d.Options.Events.Errorf("no notification channel enabled, %s not sent", key)
		return res
	}
	for _, c := range chunks {
		ok, outcomes := d.Deliver(ctx, c.Title(prefix), c.Text)
		res.Outcomes = append(res.Outcomes, outcomes...)
		if !ok {
			return res
		}
		res.Delivered++
	}
	res.OK = true
	return res
}
