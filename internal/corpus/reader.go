package corpus

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
)

// ErrMissingInput reports that the input sample does not exist.
var ErrMissingInput = errors.New("input sample not found")

// MalformedRecordError reports a line that is not valid JSON, even after
// splitting concatenated objects apart.
type MalformedRecordError struct {
	Line int
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("parse record line %d: %v", e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Reader reads records from line-delimited JSON.
type Reader struct {
	r    *bufio.Reader
	line int
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// All yields records in input order. Iteration stops after the first
// error, which is yielded with a zero Record. The underlying reader is
// consumed, so All can be ranged over once.
func (rd *Reader) All() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			line, err := rd.r.ReadBytes('\n')
			if len(line) > 0 {
				rd.line++
				records, perr := parseLine(line, rd.line)
				if perr != nil {
					yield(Record{}, perr)
					return
				}
				for _, rec := range records {
					if !yield(rec, nil) {
						return
					}
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield(Record{}, fmt.Errorf("read line %d: %w", rd.line+1, err))
				}
				return
			}
		}
	}
}

// ReadRecords yields the records of the JSONL file at path. The file is
// reopened every time the sequence is ranged over.
func ReadRecords(path string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		file, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				err = fmt.Errorf("%w: %s", ErrMissingInput, path)
			} else {
				err = fmt.Errorf("open sample: %w", err)
			}
			yield(Record{}, err)
			return
		}
		defer func() { _ = file.Close() }()

		for rec, err := range NewReader(file).All() {
			if !yield(rec, err) {
				return
			}
		}
	}
}

var (
	objectJoint = []byte("}{")
	objectSplit = []byte("}\n{")
)

// parseLine parses one physical line. Blank lines yield nothing. A line
// that does not parse as one object is treated as objects written back to
// back and split at every "}{".
func parseLine(line []byte, lineNo int) ([]Record, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if rec, err := ParseRecord(trimmed); err == nil {
		return []Record{rec}, nil
	}

	parts := bytes.Split(bytes.ReplaceAll(trimmed, objectJoint, objectSplit), []byte("\n"))
	records := make([]Record, 0, len(parts))
	for _, part := range parts {
		part = bytes.TrimSpace(part)
		if len(part) == 0 {
			continue
		}
		rec, err := ParseRecord(part)
		if err != nil {
			return nil, &MalformedRecordError{Line: lineNo, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}
