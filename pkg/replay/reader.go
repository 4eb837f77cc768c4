// Package replay feeds recorded signal streams into a running focus
// server. The engine is deterministic over a signal sequence, so a
// replayed session reproduces the original scores and alerts exactly.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/focusguard/go-focusguard/pkg/signal"
)

// Reader decodes a JSONL stream of signal records, one record per line.
// Blank lines are skipped.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader wraps r in a signal stream reader.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: sc}
}

// Next returns the next record, or io.EOF when the stream is exhausted.
func (r *Reader) Next() (signal.Record, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec signal.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return signal.Record{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return signal.Record{}, err
	}
	return signal.Record{}, io.EOF
}

// ReadAll decodes the whole stream.
func ReadAll(r io.Reader) ([]signal.Record, error) {
	reader := NewReader(r)
	var records []signal.Record
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
