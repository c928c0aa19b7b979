package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultFileName is used when the destination is a directory
const DefaultFileName = "ComponentSearchResults.txt"

// ErrExportFailure marks a destination that rejected the write
var ErrExportFailure = errors.New("export failed")

// Error reports a failed export together with its destination
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", ErrExportFailure, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrExportFailure, e.Path, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrExportFailure, e.Err}
}

// Join returns the paths newline-joined, without a trailing newline
func Join(paths []string) string {
	return strings.Join(paths, "\n")
}

// Write streams one path per line to w
func Write(w io.Writer, paths []string) error {
	bw := bufio.NewWriter(w)
	for _, p := range paths {
		if _, err := bw.WriteString(p); err != nil {
			return &Error{Err: err}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return &Error{Err: err}
		}
	}
	if err := bw.Flush(); err != nil {
		return &Error{Err: err}
	}
	return nil
}

// Destination resolves name to a file path, appending DefaultFileName when
// name is an existing directory
func Destination(fs afero.Fs, name string) string {
	if ok, err := afero.IsDir(fs, name); err == nil && ok {
		return filepath.Join(name, DefaultFileName)
	}
	return name
}

// WriteFile writes paths as UTF-8 plain text, one per line, and returns the
// file that was written
func WriteFile(fs afero.Fs, name string, paths []string) (string, error) {
	dest := Destination(fs, name)

	f, err := fs.Create(dest)
	if err != nil {
		return dest, &Error{Path: dest, Err: err}
	}

	if err := Write(f, paths); err != nil {
		f.Close()
		var exportErr *Error
		if errors.As(err, &exportErr) {
			exportErr.Path = dest
		}
		return dest, err
	}

	if err := f.Close(); err != nil {
		return dest, &Error{Path: dest, Err: err}
	}
	return dest, nil
}

// ReadLines reads back an exported file, one path per line
func ReadLines(fs afero.Fs, name string) ([]string, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	return lines, nil
}
