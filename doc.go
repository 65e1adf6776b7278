// Package fundpush values a ledger of fund holdings and turns it into reports.
//
// A run goes through a few stages:
//   - Ledger: holdings are read from a plain CSV file, one purchase per line
//     (owner, fund code, buy date, principal, shares).
//   - Valuation: every distinct fund code is resolved once through an ordered list of
//     unreliable upstream Sources; the first one that answers wins (see Resolver).
//   - Returns: each holding is combined with its valuation into a ResolvedHolding carrying
//     market value, profit, absolute and annualized return.
//   - Reports: holdings are grouped per owner, per fund and into a performance summary.
//     The models live here, the text rendering in the renderer package.
//   - Delivery: long reports are cut into byte-bounded Chunks (see Split) before being
//     pushed by the notify package, or archived on disk (see Archive).
//
// The worker package orchestrates a full run and reports its progress through Events.
package fundpush
