package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/contract-sentinel/internal/record"
)

func TestRecord_GetTrimsAndDefaults(t *testing.T) {
	r := record.Record{record.FieldTitle: "  Supply deal  "}

	assert.Equal(t, "Supply deal", r.Title())
	assert.Equal(t, "", r.Status())
	assert.False(t, r.Has(record.FieldStatus))

	var nilRecord record.Record
	assert.Equal(t, "", nilRecord.Get(record.FieldTitle))
	assert.False(t, nilRecord.Has(record.FieldTitle))
}

func TestRecord_Label(t *testing.T) {
	assert.Equal(t, "C-1", record.Record{record.FieldID: "C-1", record.FieldTitle: "x"}.Label())
	assert.Equal(t, "x", record.Record{record.FieldTitle: "x"}.Label())
	assert.Equal(t, "(untitled)", record.Record{}.Label())
}

func TestRecord_FingerprintIsOrderIndependentAndSensitive(t *testing.T) {
	a := record.Record{"a": "1", "b": "2"}
	b := record.Record{"b": "2", "a": "1"}
	c := record.Record{"a": "1", "b": "3"}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	// key/value boundaries are delimited
	assert.NotEqual(t,
		record.Record{"ab": "c"}.Fingerprint(),
		record.Record{"a": "bc"}.Fingerprint())
}

func TestHasField(t *testing.T) {
	batch := []record.Record{{record.FieldTitle: "a"}, {record.FieldStatus: ""}}
	assert.True(t, record.HasField(batch, record.FieldStatus))
	assert.False(t, record.HasField(batch, record.FieldDate))
	assert.False(t, record.HasField(nil, record.FieldStatus))
}
