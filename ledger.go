package fundpush

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/etnz/fundpush/date"
)

// SampleLedger is written by the init command when no ledger exists yet.
const SampleLedger = `# owner,fund code,buy date,principal (yuan),shares
# sample rows, replace them with your own:
张三,163406,2023-01-01,100000.00,50000.00
张三,110022,2023-05-15,50000.00,30000.00
李四,001718,2024-01-01,80000.00,40000.00
`

// owners are 2 to 20 Han characters or latin letters.
var ownerPattern = regexp.MustCompile(`^[\p{Han}A-Za-z]{2,20}$`)

// RowError describes a ledger row that was skipped.
type RowError struct {
	Line int
	Row  string
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d %q: %v", e.Line, e.Row, e.Err) }
func (e *RowError) Unwrap() error { return e.Err }

// Ledger is the content of a holdings file.
type Ledger struct {
	Holdings []Holding  // valid rows, in file order
	Skipped  []RowError // invalid rows, in file order
}

// Owners returns the distinct owners of the ledger in first-seen order.
func (l *Ledger) Owners() []string {
	seen := make(map[string]bool)
	var owners []string
	for _, h := range l.Holdings {
		if !seen[h.Owner] {
			seen[h.Owner] = true
			owners = append(owners, h.Owner)
		}
	}
	return owners
}

// ReadLedger decodes a holdings file: one "owner,code,YYYY-MM-DD,principal,shares" row
// per line. Blank lines and lines starting with '#' are ignored. Invalid rows are
// reported in Skipped and do not stop the decoding.
func ReadLedger(r io.Reader) (*Ledger, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	ledger := new(Ledger)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			ledger.Skipped = append(ledger.Skipped, RowError{Line: perr.Line, Row: strings.Join(row, ","), Err: perr.Err})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read ledger: %w", err)
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		line, _ := cr.FieldPos(0)
		h, err := parseHolding(row)
		if err != nil {
			ledger.Skipped = append(ledger.Skipped, RowError{Line: line, Row: strings.Join(row, ","), Err: err})
			continue
		}
		ledger.Holdings = append(ledger.Holdings, h)
	}
	return ledger, nil
}

func parseHolding(row []string) (Holding, error) {
	if len(row) != 5 {
		return Holding{}, fmt.Errorf("want 5 fields, got %d", len(row))
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
	owner, code := row[0], row[1]
	if !ownerPattern.MatchString(owner) {
		return Holding{}, fmt.Errorf("invalid owner %q: want 2 to 20 Han characters or letters", owner)
	}
	if code == "" {
		return Holding{}, errors.New("missing fund code")
	}
	bought, err := date.Parse(row[2])
	if err != nil {
		return Holding{}, err
	}
	principal, err := ParseMoney(row[3])
	if err != nil {
		return Holding{}, fmt.Errorf("invalid principal %q: %w", row[3], err)
	}
	if principal.IsNegative() {
		return Holding{}, fmt.Errorf("invalid principal %q: must not be negative", row[3])
	}
	shares, err := ParseQuantity(row[4])
	if err != nil {
		return Holding{}, fmt.Errorf("invalid shares %q: %w", row[4], err)
	}
	if shares.IsNegative() {
		return Holding{}, fmt.Errorf("invalid shares %q: must not be negative", row[4])
	}
	return Holding{Owner: owner, Code: code, Bought: bought, Principal: principal, Shares: shares}, nil
}
