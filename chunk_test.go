package fundpush

import (
	"strings"
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{"empty", "", 10, []string{""}},
		{"fits", "abc\ndef", 7, []string{"abc\ndef"}},
		{"one byte short", "abc\ndef", 6, []string{"abc", "def"}},
		{"long line alone", "ab\nabcdefghij\ncd", 5, []string{"ab", "abcdefghij", "cd"}},
		{"blank lines kept", "a\n\nb", 3, []string{"a\n", "b"}},
		{"multibyte counted in bytes", "基金\n基金", 7, []string{"基金", "基金"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.text, tt.max))
		})
	}
}

// a 5000 bytes report made of 99 bytes lines is sent in 3 messages of 2048 bytes.
func TestSplit_FiveThousandBytes(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = strings.Repeat("x", 99)
	}
	text := strings.Join(lines, "\n") + "\n"

	chunks := Split(text, 2048)
	assert.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 2048)
	}
	assert.Equal(t, text, strings.Join(chunks, "\n"))
}

func TestPaginate(t *testing.T) {
	chunks := Paginate("aaaa\nbbbb\ncccc", 9)
	if len(chunks) != 2 {
		t.Fatalf("Paginate() returned %d chunks, want 2", len(chunks))
	}
	if got := chunks[0].Title("NAV report"); got != "NAV report[1/2]" {
		t.Errorf("Title() = %q", got)
	}
	if chunks[1].Index != 2 || chunks[1].Total != 2 || chunks[1].Text != "cccc" {
		t.Errorf("second chunk = %+v", chunks[1])
	}
}

func TestSplit_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	text := gen.SliceOf(gen.UnicodeString(unicode.Han)).Map(func(lines []string) string {
		return strings.Join(lines, "\n")
	})
	budget := gen.IntRange(1, 200)

	properties.Property("split is lossless", prop.ForAll(
		func(s string, max int) bool {
			return strings.Join(Split(s, max), "\n") == s
		},
		text, budget,
	))

	properties.Property("chunks fit unless made of a single long line", prop.ForAll(
		func(s string, max int) bool {
			for _, c := range Split(s, max) {
				if len(c) > max && strings.Contains(c, "\n") {
					return false
				}
			}
			return true
		},
		text, budget,
	))

	properties.Property("split is idempotent", prop.ForAll(
		func(s string, max int) bool {
			first := Split(s, max)
			again := Split(strings.Join(first, "\n"), max)
			if len(first) != len(again) {
				return false
			}
			for i := range first {
				if first[i] != again[i] {
					return false
				}
			}
			return true
		},
		text, budget,
	))

	properties.TestingRun(t)
}
