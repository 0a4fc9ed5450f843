package record

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Field names every caller is expected to supply
const (
	FieldID         = "id"
	FieldDate       = "date"
	FieldTitle      = "title"
	FieldPriority   = "priority"
	FieldContractor = "contractor"
	FieldProject    = "project"
	FieldCountry    = "country"
	FieldStatus     = "status_comment"
)

// Record is one contract row as handed over by the presentation layer
// Values are kept as strings; missing keys read as the empty string
type Record map[string]string

// Get returns the trimmed value for a field, or "" when absent
func (r Record) Get(field string) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r[field])
}

// Has reports whether the field key is present at all
func (r Record) Has(field string) bool {
	if r == nil {
		return false
	}
	_, ok := r[field]
	return ok
}

// Status returns the status comment, which doubles as the training label
func (r Record) Status() string {
	return r.Get(FieldStatus)
}

// Title returns the contract title
func (r Record) Title() string {
	return r.Get(FieldTitle)
}

// Label returns a human-friendly identifier for logs and reports
func (r Record) Label() string {
	if id := r.Get(FieldID); id != "" {
		return id
	}
	if title := r.Title(); title != "" {
		return title
	}
	return "(untitled)"
}

// Fingerprint returns a stable hash over all fields in key order
func (r Record) Fingerprint() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(r[k]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HasField reports whether any record in the batch carries the field
func HasField(records []Record, field string) bool {
	for _, r := range records {
		if r.Has(field) {
			return true
		}
	}
	return false
}
