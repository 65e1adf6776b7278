package fundpush

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StampFormat names archived report files.
const StampFormat = "20060102_150405"

// SummaryFile is the name of the archived performance summary, overwritten at every run.
const SummaryFile = "performance-summary.txt"

var filenameReplacer = strings.NewReplacer(
	`\`, "_", "/", "_", "*", "_", "?", "_", ":", "_", `"`, "_", "<", "_", ">", "_", "|", "_",
	"(", "_", ")", "_", "（", "_", "）", "_", " ", "_",
)

// SanitizeFilename replaces the characters that are unsafe in a file name by '_'.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(filenameReplacer.Replace(name))
}

// Archive writes reports under a directory:
//
//	<dir>/by_fund/<code>_<name>/<stamp>.txt
//	<dir>/by_user/<owner>/<stamp>.txt
//	<dir>/performance-summary.txt
type Archive struct {
	Dir   string
	Stamp string
}

// NewArchive returns an Archive in dir whose files are stamped with now.
func NewArchive(dir string, now time.Time) *Archive {
	return &Archive{Dir: dir, Stamp: now.Format(StampFormat)}
}

// WriteFund archives the report of a fund and returns the file path.
func (a *Archive) WriteFund(code, name, text string) (string, error) {
	dir := filepath.Join(a.Dir, "by_fund", SanitizeFilename(code+"_"+name))
	return a.write(dir, a.Stamp+".txt", text)
}

// WriteUser archives the report of an owner and returns the file path.
func (a *Archive) WriteUser(owner, text string) (string, error) {
	dir := filepath.Join(a.Dir, "by_user", SanitizeFilename(owner))
	return a.write(dir, a.Stamp+".txt", text)
}

// WriteSummary archives the performance summary and returns the file path.
func (a *Archive) WriteSummary(text string) (string, error) {
	return a.write(a.Dir, SummaryFile, text)
}

func (a *Archive) write(dir, name, text string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create report directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("cannot write report %s: %w", path, err)
	}
	return path, nil
}
