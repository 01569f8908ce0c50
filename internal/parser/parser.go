// Package parser reads the encoded-triple file format: ASCII, one triple
// per line, three space-separated unsigned decimal integers. Modeled on
// the source parser's line-oriented scan, but diverging from it on
// exactly one behavior per the format's actual contract: a line that
// fails to parse is skipped rather than treated as fatal.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/diregraph/dire/internal/ident"
)

// ErrMalformedTriple marks a line that failed to parse as three
// space-separated unsigned integers. It is used only as an internal skip
// marker passed to SkipLogger; Scan/Read/ReadFile never return it, since a
// malformed line is dropped rather than treated as fatal.
var ErrMalformedTriple = fmt.Errorf("parser: malformed triple line")

// SkipLogger is called for every malformed line that is dropped, with the
// 1-based line number and the reason. Passing a non-nil logger resolves
// the source format's open question ("a production implementation should
// log or surface these") without changing the default silent-skip
// contract when no logger is supplied.
type SkipLogger func(line int, raw string, reason error)

// ReadFile opens path and returns every well-formed triple it contains,
// in file order. Malformed lines are skipped; skipLog, if non-nil, is
// notified of each one. An I/O failure opening or reading the file is
// returned as an error, per the format's error-handling contract.
func ReadFile(path string, skipLog SkipLogger) ([]ident.Triple, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parser: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, skipLog)
}

// Read scans r for encoded triples. It is the lazy-sequence contract of
// the format collected eagerly; callers that need a true lazy iterator
// over a very large file can wrap Scan directly.
func Read(r io.Reader, skipLog SkipLogger) ([]ident.Triple, error) {
	var out []ident.Triple
	err := Scan(r, func(t ident.Triple) {
		out = append(out, t)
	}, skipLog)
	return out, err
}

// Scan reads r line by line, invoking emit for every well-formed triple.
// It returns only on an underlying I/O error from the scanner; malformed
// lines never abort the scan.
func Scan(r io.Reader, emit func(ident.Triple), skipLog SkipLogger) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		t, err := parseLine(line)
		if err != nil {
			if skipLog != nil {
				skipLog(lineNo, line, err)
			}
			continue
		}
		emit(t)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("parser: read: %w", err)
	}
	return nil
}

func parseLine(line string) (ident.Triple, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return ident.Triple{}, fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformedTriple, len(fields))
	}
	var vals [3]uint32
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return ident.Triple{}, fmt.Errorf("%w: field %d: %v", ErrMalformedTriple, i, err)
		}
		vals[i] = uint32(n)
	}
	return ident.Triple{S: vals[0], P: vals[1], O: vals[2]}, nil
}
