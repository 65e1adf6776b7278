package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2023-01-01", want: New(2023, 1, 1)},
		{in: "2023-1-5", want: New(2023, 1, 5)},
		{in: "2024-02-29", want: New(2024, 2, 29)},
		{in: "2023-02-30", wantErr: true},
		{in: "01/02/2023", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDaysSince(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2023-01-01", "2024-01-01", 365},
		{"2024-01-01", "2025-01-01", 366},
		{"2024-03-10", "2024-03-10", 0},
		{"2024-03-10", "2024-03-09", -1},
	}
	for _, tt := range tests {
		got := MustParse(tt.to).DaysSince(MustParse(tt.from))
		if got != tt.want {
			t.Errorf("%s.DaysSince(%s) = %d, want %d", tt.to, tt.from, got, tt.want)
		}
	}
}

func TestShortAndString(t *testing.T) {
	d := New(2024, 3, 7)
	if got := d.Short(); got != "03-07" {
		t.Errorf("Short() = %q, want %q", got, "03-07")
	}
	if got := d.String(); got != "2024-03-07" {
		t.Errorf("String() = %q, want %q", got, "2024-03-07")
	}
	if got := (Date{}).String(); got != "" {
		t.Errorf("zero String() = %q, want empty", got)
	}
}

func TestOf(t *testing.T) {
	cst := time.FixedZone("CST", 8*3600)
	// 2024-01-01T20:00Z is already the 2nd in Beijing.
	instant := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	if got := Of(instant.In(cst)); got != New(2024, 1, 2) {
		t.Errorf("Of() = %v, want 2024-01-02", got)
	}
}

func TestJSON(t *testing.T) {
	var payload struct {
		On    Date `json:"on"`
		Empty Date `json:"empty"`
	}
	if err := json.Unmarshal([]byte(`{"on":"2024-05-06","empty":""}`), &payload); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if payload.On != New(2024, 5, 6) {
		t.Errorf("On = %v, want 2024-05-06", payload.On)
	}
	if !payload.Empty.IsZero() {
		t.Errorf("Empty = %v, want zero date", payload.Empty)
	}
	data, err := json.Marshal(payload.On)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2024-05-06"` {
		t.Errorf("Marshal() = %s", data)
	}
}
