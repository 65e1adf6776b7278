package fundpush

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/fundpush/date"
	"github.com/rs/zerolog"
)

// Unavailable is appended to a fund name when its only known valuation lies in the future.
const Unavailable = " [unavailable]"

// ErrNoAnswer is returned by a Source that reached its upstream but got no usable record.
var ErrNoAnswer = errors.New("no answer")

// Valuation is the latest known net asset value of a fund.
//
// An invalid Valuation always has a zero NAV and a zero Date.
type Valuation struct {
	Code   string
	Name   string
	Date   date.Date // date of the NAV, zero when absent
	NAV    Quantity  // net asset value per share
	Change string    // daily change as published by the source, "N/A" when absent
	Valid  bool
	Source int // 1-based rank of the source that answered, 0 when none did
}

// Unresolved returns the terminal record of a code that no source could value.
func Unresolved(code string) Valuation {
	return Valuation{
		Code:   code,
		Name:   fmt.Sprintf("lookup failed(%s)", code),
		Change: NotApplicable,
	}
}

// DisplayName returns the fund name without the Unavailable marker.
func (v Valuation) DisplayName() string {
	if n := len(v.Name) - len(Unavailable); n >= 0 && v.Name[n:] == Unavailable {
		return v.Name[:n]
	}
	return v.Name
}

// complete reports whether v carries everything a report needs.
func (v Valuation) complete() bool {
	if v.Name == "" {
		return false
	}
	return !v.Valid || (!v.Date.IsZero() && v.NAV.IsPositive())
}

// Source fetches the valuation of a fund code from one upstream provider.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Fetch returns the valuation of code, or an error if the provider could not answer.
	Fetch(ctx context.Context, code string) (Valuation, error)
}

// Cache memoizes valuations by fund code.
type Cache map[string]Valuation

// Resolver values fund codes through an ordered list of Sources.
//
// Sources are tried in order, the first one to answer wins. A Resolver is meant to live
// for a single run: its Cache is never expired.
type Resolver struct {
	Sources []Source
	Cache   Cache // optional, pre-seeded entries are returned as is
	Log     zerolog.Logger
}

// NewResolver returns a Resolver over sources with an empty cache.
func NewResolver(log zerolog.Logger, sources ...Source) *Resolver {
	return &Resolver{Sources: sources, Cache: make(Cache), Log: log}
}

// Resolve returns the valuation of code. It never fails: when every source fails it
// returns Unresolved(code).
func (r *Resolver) Resolve(ctx context.Context, code string) Valuation {
	if v, ok := r.Cache[code]; ok {
		return v
	}
	v := r.lookup(ctx, code)
	if r.Cache == nil {
		r.Cache = make(Cache)
	}
	r.Cache[code] = v
	return v
}

func (r *Resolver) lookup(ctx context.Context, code string) Valuation {
	for i, src := range r.Sources {
		log := r.Log.With().Str("source", src.Name()).Str("code", code).Logger()
		v, err := fetch(ctx, src, code)
		if err == nil && !v.complete() {
			err = fmt.Errorf("incomplete record: %w", ErrNoAnswer)
		}
		if err != nil {
			log.Warn().Err(err).Msg("source failed, trying next")
			continue
		}
		v.Code = code
		v.Source = i + 1
		if v.Change == "" {
			v.Change = NotApplicable
		}
		if !v.Valid {
			v.NAV, v.Date = Quantity{}, date.Date{}
		}
		log.Debug().Str("nav", v.NAV.String()).Stringer("date", v.Date).Msg("resolved")
		return v
	}
	r.Log.Warn().Str("code", code).Msg("every source failed")
	return Unresolved(code)
}

// fetch calls src turning a panic into an error.
func fetch(ctx context.Context, src Source, code string) (v Valuation, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("source %s panicked: %v", src.Name(), p)
		}
	}()
	return src.Fetch(ctx, code)
}
