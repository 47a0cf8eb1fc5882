package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// StringList is an ordered list of strings stored as a JSON text column.
// A nil StringList maps to SQL NULL, which is distinct from an empty list:
// on assignment edges NULL means "reachable but no operational permission".
type StringList []string

// Value implements driver.Valuer. nil serializes to NULL.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}

	out, err := json.Marshal([]string(l))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode string list")
	}

	return string(out), nil
}

// Scan implements sql.Scanner. NULL scans to a nil list.
func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}

	var raw []byte

	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.Errorf("unsupported string list source type %T", src)
	}

	if len(raw) == 0 {
		*l = nil
		return nil
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return errors.Wrap(err, "failed to decode string list")
	}

	*l = out

	return nil
}

// FieldChange describes one changed field of an audited record with its
// pre- and post-image. Only UPDATE audit records carry changes.
type FieldChange struct {
	Field  string   `json:"field"`
	Before []string `json:"before"`
	After  []string `json:"after"`
}

// FieldChangeList is a list of FieldChange stored as a JSON text column.
type FieldChangeList []FieldChange

// Value implements driver.Valuer. nil serializes to NULL.
func (f FieldChangeList) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}

	out, err := json.Marshal([]FieldChange(f))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode change list")
	}

	return string(out), nil
}

// Scan implements sql.Scanner. NULL scans to a nil list.
func (f *FieldChangeList) Scan(src any) error {
	if src == nil {
		*f = nil
		return nil
	}

	var raw []byte

	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.Errorf("unsupported change list source type %T", src)
	}

	if len(raw) == 0 {
		*f = nil
		return nil
	}

	var out []FieldChange
	if err := json.Unmarshal(raw, &out); err != nil {
		return errors.Wrap(err, "failed to decode change list")
	}

	*f = out

	return nil
}
