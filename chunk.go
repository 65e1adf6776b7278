package fundpush

import (
	"fmt"
	"strings"
)

// Chunk is one page of a text too long to be sent in a single message.
type Chunk struct {
	Index int // 1-based
	Total int
	Text  string
}

// Title returns prefix followed by the page marker, e.g. "NAV report[2/3]".
func (c Chunk) Title(prefix string) string {
	return fmt.Sprintf("%s[%d/%d]", prefix, c.Index, c.Total)
}

// Split cuts text into chunks of whole lines whose UTF-8 length (newlines included) is at
// most maxBytes. A line longer than maxBytes is kept whole, alone in its chunk.
//
// Joining the chunks with "\n" gives back text.
func Split(text string, maxBytes int) []string {
	var (
		chunks []string
		cur    strings.Builder
		empty  = true
	)
	for _, line := range strings.Split(text, "\n") {
		if !empty && cur.Len()+1+len(line) > maxBytes {
			chunks = append(chunks, cur.String())
			cur.Reset()
			empty = true
		}
		if !empty {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
		empty = false
	}
	return append(chunks, cur.String())
}

// Paginate splits text like Split and numbers the resulting chunks.
func Paginate(text string, maxBytes int) []Chunk {
	parts := Split(text, maxBytes)
	chunks := make([]Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = Chunk{Index: i + 1, Total: len(parts), Text: p}
	}
	return chunks
}
