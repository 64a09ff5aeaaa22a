// Package template loads the JSON templates that define the canonical field
// set, field order and per-locality constants for sales, purchases and
// upload outputs. Templates are loaded once at startup and never mutated.
// A missing or invalid template file falls back to the built-in default.
package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/DanielZo0/CMS-Sales/constants"
)

// Markers a template value may carry instead of a constant. Marked fields
// are filled by the normalizer; everything else is copied through verbatim.
const (
	MarkerPrefix = "extract_"
)

// Field is one template column: a key plus either a constant default or an
// extract_* marker.
type Field struct {
	Key   string
	Value string
}

// IsMarker reports whether the field is filled dynamically.
func (f Field) IsMarker() bool {
	return strings.HasPrefix(f.Value, MarkerPrefix) ||
		f.Value == "supplier_code" || f.Value == "NC_extract"
}

// Entry is one template object (one locality variant), fields in file order.
type Entry struct {
	Fields []Field
}

// Get returns the template value for key.
func (e Entry) Get(key string) (string, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Keys returns the entry's field order.
func (e Entry) Keys() []string {
	keys := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Template is an ordered list of entries, one per locality variant.
type Template struct {
	Entries []Entry
}

// Keys returns the field order of the template (all entries share it).
func (t *Template) Keys() []string {
	if len(t.Entries) == 0 {
		return nil
	}
	return t.Entries[0].Keys()
}

// ForLocality picks the entry whose Supplier Code matches the locality,
// falling back to the first entry with the supplier code substituted.
func (t *Template) ForLocality(loc constants.Locality) Entry {
	code := loc.SupplierCode()
	for _, e := range t.Entries {
		if v, ok := e.Get("Supplier Code"); ok && v == code {
			return e
		}
	}
	if len(t.Entries) == 0 {
		return Entry{}
	}
	first := t.Entries[0]
	fields := make([]Field, len(first.Fields))
	copy(fields, first.Fields)
	for i := range fields {
		if fields[i].Key == "Supplier Code" {
			fields[i].Value = code
		}
	}
	return Entry{Fields: fields}
}

// Set bundles the three templates the run needs.
type Set struct {
	Sales     *Template
	Purchases *Template
	Upload    Entry
}

// templateSchema constrains a template file to a non-empty array of objects
// with string values.
const templateSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"additionalProperties": {"type": "string"}
	}
}`

// Load reads the template set from dir. Any template that is missing or does
// not validate is replaced by the built-in default with a warning; Load
// itself never fails.
func Load(dir string, logger *slog.Logger) *Set {
	if logger == nil {
		logger = slog.Default()
	}
	return &Set{
		Sales:     loadTemplate(filepath.Join(dir, "JSON_Template_Sales.json"), defaultSales, logger),
		Purchases: loadTemplate(filepath.Join(dir, "JSON_Template_Purchases.json"), defaultPurchases, logger),
		Upload:    loadUpload(filepath.Join(dir, "JSON_Template_Upload.json"), logger),
	}
}

func loadTemplate(path string, fallback func() *Template, logger *slog.Logger) *Template {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("template not found, using default", "path", path)
		return fallback()
	}
	t, err := parse(raw)
	if err != nil {
		logger.Warn("template invalid, using default", "path", path, "error", err)
		return fallback()
	}
	return t
}

func loadUpload(path string, logger *slog.Logger) Entry {
	t := loadTemplate(path, defaultUpload, logger)
	if len(t.Entries) == 0 {
		return defaultUpload().Entries[0]
	}
	return t.Entries[0]
}

// parse validates raw against the template schema, then decodes it
// preserving object key order.
func parse(raw []byte) (*Template, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("template.json", strings.NewReader(templateSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("template.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("unmarshal template: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("template does not match schema: %w", err)
	}
	return decodeOrdered(raw)
}

// decodeOrdered walks the token stream so field order survives decoding.
func decodeOrdered(raw []byte) (*Template, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // opening [
		return nil, err
	}
	t := &Template{}
	for dec.More() {
		if _, err := dec.Token(); err != nil { // opening {
			return nil, err
		}
		var entry Entry
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			valTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			val, _ := valTok.(string)
			entry.Fields = append(entry.Fields, Field{Key: key, Value: val})
		}
		if _, err := dec.Token(); err != nil { // closing }
			return nil, err
		}
		t.Entries = append(t.Entries, entry)
	}
	return t, nil
}
