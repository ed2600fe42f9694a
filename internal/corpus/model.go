package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ClassName is a label class used to bucket records.
type ClassName string

// NoneClass is assigned to records without any usable label.
const NoneClass ClassName = "_none_"

// LabelKind tells how a label entry was spelled in the record.
type LabelKind int

// Label entry shapes.
const (
	// LabelBare is a label given as a plain JSON scalar, e.g. "bug".
	LabelBare LabelKind = iota
	// LabelNamed is a label object carrying a name field, e.g. {"name":"bug"}.
	LabelNamed
)

// LabelEntry is one item of a record's labels list.
type LabelEntry struct {
	Kind LabelKind
	Name string
}

// Identifier is the dedup key of a record. String and number ids are
// distinct even when their text matches.
type Identifier struct {
	numeric bool
	text    string
}

func (id Identifier) String() string {
	if id.numeric {
		return id.text
	}
	return strconv.Quote(id.text)
}

// Record is one issue object read from a JSONL sample. It is immutable:
// the original object bytes are kept and written back unchanged.
type Record struct {
	raw    []byte
	fields map[string]json.RawMessage
	id     Identifier
	hasID  bool
	labels []LabelEntry
}

// ParseRecord decodes one JSON object.
func ParseRecord(data []byte) (Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Record{}, errors.New("not a JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Record{}, err
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return Record{}, err
	}

	rec := Record{raw: compact.Bytes(), fields: fields}
	rec.id, rec.hasID = decodeIdentifier(fields["id"])
	rec.labels = decodeLabels(fields["labels"])
	return rec, nil
}

// MustParseRecord is ParseRecord for literals known to be valid.
func MustParseRecord(data string) Record {
	rec, err := ParseRecord([]byte(data))
	if err != nil {
		panic(fmt.Sprintf("corpus: invalid record %q: %v", data, err))
	}
	return rec
}

// ID returns the record identifier, if the record has one.
func (r Record) ID() (Identifier, bool) {
	return r.id, r.hasID
}

// Labels returns the decoded labels list.
func (r Record) Labels() []LabelEntry {
	return r.labels
}

// Field returns the raw JSON of a top-level field.
func (r Record) Field(name string) (json.RawMessage, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Bytes returns the compact JSON encoding of the record.
func (r Record) Bytes() []byte {
	return r.raw
}

// MarshalJSON writes the record as it was read.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.raw == nil {
		return []byte("null"), nil
	}
	return r.raw, nil
}

func decodeIdentifier(raw json.RawMessage) (Identifier, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Identifier{}, false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Identifier{}, false
		}
		return Identifier{text: s}, true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return Identifier{numeric: true, text: canonicalNumber(string(raw))}, true
	default:
		return Identifier{}, false
	}
}

// canonicalNumber makes 1, 1.0 and 1e0 the same identifier.
func canonicalNumber(text string) string {
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return text
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return text
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// decodeLabels resolves the labels field into tagged entries. A missing,
// null, or non-list field has no entries.
func decodeLabels(raw json.RawMessage) []LabelEntry {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	labels := make([]LabelEntry, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '{' {
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(item, &obj); err != nil {
				continue
			}
			labels = append(labels, LabelEntry{Kind: LabelNamed, Name: scalarText(obj["name"])})
			continue
		}
		labels = append(labels, LabelEntry{Kind: LabelBare, Name: scalarText(item)})
	}
	return labels
}

// scalarText renders a JSON scalar as label text. Strings are unquoted;
// numbers and booleans keep their literal text; null, objects, and arrays
// have no text.
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	default:
		return string(raw)
	}
}
