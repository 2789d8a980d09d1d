// Package setting holds typed per-store key/value settings.
package setting

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/storehub/backend/internal/domain/shared"
)

// ValueType tells how the stored text is interpreted
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeInteger ValueType = "integer"
	TypeBoolean ValueType = "boolean"
	TypeJSON    ValueType = "json"
)

// IsValid reports whether t is a known value type
func (t ValueType) IsValid() bool {
	switch t {
	case TypeString, TypeInteger, TypeBoolean, TypeJSON:
		return true
	}
	return false
}

// Setting is a key/value pair owned by one store. (StoreID, Key) is unique.
type Setting struct {
	shared.AuditedEntity
	StoreID uint
	Key     string
	Value   *string
	Type    ValueType
}

// New creates a setting and encodes value according to typ
func New(storeID uint, key string, typ ValueType, value any) (*Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, shared.NewValidationError("key", "The key field is required.")
	}
	if len(key) > 255 {
		return nil, shared.NewValidationError("key", "The key field must not be greater than 255 characters.")
	}
	s := &Setting{StoreID: storeID, Key: key}
	if err := s.Assign(typ, value); err != nil {
		return nil, err
	}
	return s, nil
}

// Assign replaces type and value together
func (s *Setting) Assign(typ ValueType, value any) error {
	if typ == "" {
		typ = TypeString
	}
	if !typ.IsValid() {
		return shared.NewValidationError("type", "The selected type is invalid.")
	}
	raw, err := Encode(typ, value)
	if err != nil {
		return err
	}
	s.Type = typ
	s.Value = raw
	return nil
}

// TypedValue decodes the stored text according to the type tag
func (s *Setting) TypedValue() (any, error) {
	return Decode(s.Type, s.Value)
}

// Encode converts value into its stored text form. A nil value is stored as NULL.
func Encode(typ ValueType, value any) (*string, error) {
	if value == nil {
		return nil, nil
	}

	var out string
	switch typ {
	case TypeInteger:
		n, ok := toInt(value)
		if !ok {
			return nil, shared.NewValidationError("value", "The value field must be an integer.")
		}
		out = strconv.FormatInt(n, 10)
	case TypeBoolean:
		b, ok := toBool(value)
		if !ok {
			return nil, shared.NewValidationError("value", "The value field must be true or false.")
		}
		out = "0"
		if b {
			out = "1"
		}
	case TypeJSON:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, shared.NewValidationError("value", "The value field must be valid JSON.")
		}
		out = string(data)
	default:
		switch v := value.(type) {
		case string:
			out = v
		case bool, float64, float32, int, int64, int32, uint, uint64, json.Number:
			out = fmt.Sprint(v)
		default:
			return nil, shared.NewValidationError("value", "The value field must be a string.")
		}
	}
	return &out, nil
}

// Decode interprets raw according to typ
func Decode(typ ValueType, raw *string) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch typ {
	case TypeInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(*raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode integer setting: %w", err)
		}
		return n, nil
	case TypeBoolean:
		return parseBool(*raw), nil
	case TypeJSON:
		var v any
		if err := json.Unmarshal([]byte(*raw), &v); err != nil {
			return nil, fmt.Errorf("decode json setting: %w", err)
		}
		return v, nil
	default:
		return *raw, nil
	}
}

// maxExactFloat is the largest magnitude a float64 holds without skipping integers
const maxExactFloat = 1 << 53

func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		// beyond 2^53 the decoded float may already differ from what was sent
		if math.IsNaN(v) || v != math.Trunc(v) || math.Abs(v) > maxExactFloat {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case float64:
		if v == 0 || v == 1 {
			return v == 1, true
		}
	case int:
		if v == 0 || v == 1 {
			return v == 1, true
		}
	case json.Number:
		switch v.String() {
		case "0", "1":
			return v.String() == "1", true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "on", "yes":
			return true, true
		case "0", "false", "off", "no", "":
			return false, true
		}
	}
	return false, false
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "on", "yes":
		return true
	}
	return false
}
