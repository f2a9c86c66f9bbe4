package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Spec is a single labelled product attribute, e.g. "Material" -> "Cuero".
type Spec struct {
	Key   string
	Value string
}

// Specifications is an ordered string mapping. It encodes as a JSON object
// whose keys keep insertion order.
type Specifications []Spec

// Get returns the value for key.
func (s Specifications) Get(key string) (string, bool) {
	for _, spec := range s {
		if spec.Key == key {
			return spec.Value, true
		}
	}
	return "", false
}

// Set replaces an existing key in place or appends it.
func (s Specifications) Set(key, value string) Specifications {
	for i := range s {
		if s[i].Key == key {
			s[i].Value = value
			return s
		}
	}
	return append(s, Spec{Key: key, Value: value})
}

func (s Specifications) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, spec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(spec.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(spec.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Specifications) UnmarshalJSON(raw []byte) error {
	if string(bytes.TrimSpace(raw)) == "null" {
		*s = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("specifications: expected object")
	}
	out := Specifications{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("specifications: expected string key")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("specifications: value for %q: %w", key, err)
		}
		out = out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// ParseSpecifications reads the "key:value;key:value" form used in CSV files.
func ParseSpecifications(raw string) (Specifications, error) {
	out := Specifications{}
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("specification %q must be key:value", pair)
		}
		out = out.Set(key, strings.TrimSpace(value))
	}
	return out, nil
}

// String renders the CSV form accepted by ParseSpecifications.
func (s Specifications) String() string {
	parts := make([]string, 0, len(s))
	for _, spec := range s {
		parts = append(parts, spec.Key+":"+spec.Value)
	}
	return strings.Join(parts, ";")
}

func (s Specifications) Value() (driver.Value, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (s *Specifications) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = Specifications{}
		return nil
	case []byte:
		return s.UnmarshalJSON(v)
	case string:
		return s.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("specifications: unsupported scan type %T", src)
	}
}

func (Specifications) GormDataType() string {
	return "json"
}

// GormDBDataType uses json rather than jsonb on Postgres: jsonb sorts object
// keys and the display order of specifications is part of the value.
func (Specifications) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "json"
	}
	return "text"
}
