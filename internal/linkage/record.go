package linkage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMalformedRecord is returned when a line does not hold exactly three
	// whitespace-separated tokens or its distance is not a non-negative number.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvariantViolation signals corrupted engine state. It is never recoverable.
	ErrInvariantViolation = errors.New("linkage invariant violation")
)

// Record is one parsed input line: two labels and the distance between them.
type Record struct {
	Label1   string
	Label2   string
	Distance float64
}

// IsSelfPair reports whether the record only declares a label.
func (r Record) IsSelfPair() bool {
	return r.Label1 == r.Label2
}

// RecordError locates a malformed record in its source.
type RecordError struct {
	Source string
	Line   int
	Text   string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s:%d: %v: %q", e.Source, e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ParseRecord splits a line into exactly three tokens: label1 label2 distance.
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Record{}, fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformedRecord, len(fields))
	}
	d, err := ParseDistance(fields[2])
	if err != nil {
		return Record{}, err
	}
	return Record{Label1: fields[0], Label2: fields[1], Distance: d}, nil
}

// ParseDistance parses a non-negative, finite distance.
func ParseDistance(text string) (float64, error) {
	d, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid distance %q", ErrMalformedRecord, text)
	}
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: distance %q must be a non-negative number", ErrMalformedRecord, text)
	}
	return d, nil
}

// RecordSource yields records in input order. Next returns io.EOF once exhausted.
type RecordSource interface {
	Next() (Record, error)
}

// SliceSource replays an in-memory list of records.
type SliceSource struct {
	records []Record
	pos     int
}

// NewSliceSource creates a RecordSource over records.
func NewSliceSource(records []Record) *SliceSource {
	return &SliceSource{records: records}
}

// Next implements RecordSource.
func (s *SliceSource) Next() (Record, error) {
	if s.pos >= len(s.records) {
		return Record{}, io.EOF
	}
	r := s.records[s.pos]
	s.pos++
	return r, nil
}

// ScannerSource parses records line by line from a reader. Blank lines and
// comments are skipped. A line starting with '#' is a comment unless it is a
// valid record whose first label is longer than "#", so "#12 A 0.1" is read.
type ScannerSource struct {
	name    string
	scanner *bufio.Scanner
	line    int
}

// NewScannerSource creates a RecordSource reading from r. The name is used in
// error messages and may be empty.
func NewScannerSource(name string, r io.Reader) *ScannerSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ScannerSource{name: name, scanner: scanner}
}

// Next implements RecordSource.
func (s *ScannerSource) Next() (Record, error) {
	for s.scanner.Scan() {
		s.line++
		text := strings.TrimSpace(s.scanner.Text())
		if text == "" || isComment(text) {
			continue
		}
		rec, err := ParseRecord(text)
		if err != nil {
			return Record{}, &RecordError{Source: s.name, Line: s.line, Text: text, Err: err}
		}
		return rec, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Record{}, err
	}
	return Record{}, io.EOF
}

func isComment(text string) bool {
	if !strings.HasPrefix(text, "#") {
		return false
	}
	fields := strings.Fields(text)
	if len(fields) != 3 || fields[0] == "#" {
		return true
	}
	_, err := ParseDistance(fields[2])
	return err != nil
}

// Line returns the number of lines consumed so far.
func (s *ScannerSource) Line() int {
	return s.line
}
