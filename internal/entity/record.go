package entity

import (
	"bytes"
	"encoding/json"

	"github.com/DanielZo0/CMS-Sales/constants"
)

// Record represents one normalized invoice for data transfer between layers.
// Field order follows the template the record was normalized against, so
// JSON and CSV outputs stay byte-stable across heterogeneous sources.
// Records are treated as immutable once emitted by the normalizer.
type Record struct {
	keys   []string
	values map[string]string

	DataType   constants.DataType
	Locality   constants.Locality
	Week       int
	SourceFile string
}

// NewRecord creates a record with the given field order. Every key starts
// out present with an empty value.
func NewRecord(keys []string) *Record {
	values := make(map[string]string, len(keys))
	for _, k := range keys {
		values[k] = ""
	}
	// copy so callers can't change field order underneath us
	order := make([]string, len(keys))
	copy(order, keys)
	return &Record{keys: order, values: values}
}

// Set assigns a field value. Keys outside the template order are ignored,
// keeping the output schema closed.
func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; ok {
		r.values[key] = value
	}
}

// Get returns the value for key, or "" when the key is not in the template.
func (r *Record) Get(key string) string {
	return r.values[key]
}

// Keys returns the field order.
func (r *Record) Keys() []string {
	return r.keys
}

// Row returns the record's values in the order of the given header.
func (r *Record) Row(header []string) []string {
	row := make([]string, len(header))
	for i, k := range header {
		row[i] = r.values[k]
	}
	return row
}

// MarshalJSON writes the fields as an object in template order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
