package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CategoryID holds a category identifier. Sources use both integer and
// string ids, so the value is kept as text.
type CategoryID string

// UnmarshalJSON accepts JSON numbers and strings.
func (id *CategoryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid category id: %w", err)
		}
		*id = CategoryID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid category id: %w", err)
	}
	*id = CategoryID(n.String())
	return nil
}

// MarshalJSON writes integer ids as numbers and everything else as strings.
func (id CategoryID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// RawAspects is the unparsed aspect field of a category row. The field is
// either absent, a string (comma separated or a list literal), or a list
// that the source already delivered structured.
type RawAspects struct {
	Valid  bool
	IsList bool
	Text   string
	List   []string
}

// TextAspects wraps a raw string field.
func TextAspects(s string) RawAspects {
	return RawAspects{Valid: true, Text: s}
}

// ListAspects wraps an already structured list.
func ListAspects(list []string) RawAspects {
	return RawAspects{Valid: true, IsList: true, List: list}
}

// MarshalJSON writes null, a string, or an array depending on the source form.
func (r RawAspects) MarshalJSON() ([]byte, error) {
	switch {
	case !r.Valid:
		return []byte("null"), nil
	case r.IsList:
		if r.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.List)
	default:
		return json.Marshal(r.Text)
	}
}

// UnmarshalJSON accepts null, a string, an array of strings, or an array of
// {"name": "..."} objects as returned by the category API.
func (r *RawAspects) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = RawAspects{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = TextAspects(s)
		return nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			name, err := aspectName(item)
			if err != nil {
				return err
			}
			list = append(list, name)
		}
		*r = ListAspects(list)
		return nil
	}
	return fmt.Errorf("unsupported aspects value: %s", string(data))
}

func aspectName(item json.RawMessage) (string, error) {
	item = bytes.TrimSpace(item)
	if len(item) > 0 && item[0] == '{' {
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return "", fmt.Errorf("invalid aspect object: %w", err)
		}
		return obj.Name, nil
	}
	var s string
	if err := json.Unmarshal(item, &s); err != nil {
		return "", fmt.Errorf("invalid aspect item: %w", err)
	}
	return s, nil
}

// CategoryRecord is one category row. AspectsParsed is derived from Aspects
// once at load time and is not mutated afterwards.
type CategoryRecord struct {
	ID            CategoryID `json:"id"`
	Name          string     `json:"name"`
	AspectsCount  int        `json:"aspectsCount"`
	Aspects       RawAspects `json:"aspects"`
	AspectsParsed []string   `json:"aspectsParsed"`
}
