// Package corpus resolves the recordings named in a list file.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MarkerName is the file written next to the first recording to record the
// estimation method.
const MarkerName = "algorithm.info"

// File extensions.
const (
	WAVExt       = ".wav"
	TrackExt     = ".f0"
	ReferenceExt = ".f0ref"
)

// ErrEmptyList is returned when a list names no recordings.
var ErrEmptyList = errors.New("corpus: list names no recordings")

// Entry is one recording named by a list file.
type Entry struct {
	// Name is the basename as written in the list, without extension.
	Name string
	// Dir is the data directory the name is resolved against.
	Dir string
}

// WAVPath returns <dir>/<name>.wav.
func (e Entry) WAVPath() string { return e.path(WAVExt) }

// TrackPath returns <dir>/<name>.f0.
func (e Entry) TrackPath() string { return e.path(TrackExt) }

// ReferencePath returns <dir>/<name>.f0ref.
func (e Entry) ReferencePath() string { return e.path(ReferenceExt) }

func (e Entry) path(ext string) string {
	return filepath.Join(e.Dir, e.Name+ext)
}

// ReadList parses a list file. Names may contain path separators.
func ReadList(path, dataDir string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open list: %w", err)
	}
	defer f.Close()

	entries, err := ParseList(f, dataDir)
	if err != nil {
		return nil, fmt.Errorf("corpus: %s: %w", path, err)
	}

	return entries, nil
}

// ParseList reads one basename per line. Surrounding whitespace is trimmed
// and blank lines are skipped.
func ParseList(r io.Reader, dataDir string) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		entries = append(entries, Entry{Name: name, Dir: dataDir})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyList
	}

	return entries, nil
}

// MarkerPath returns the marker location for a run: the directory holding
// the first recording.
func MarkerPath(entries []Entry) (string, error) {
	if len(entries) == 0 {
		return "", ErrEmptyList
	}
	return filepath.Join(filepath.Dir(entries[0].WAVPath()), MarkerName), nil
}
