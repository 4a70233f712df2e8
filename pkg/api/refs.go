package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TableRef is a weak reference to a table. The service sends either the
// bare id or the populated table document; both decode here.
type TableRef struct {
	ID    string
	Table *Table
}

func RefTable(id string) TableRef {
	return TableRef{ID: id}
}

func (r TableRef) IsZero() bool {
	return r.ID == ""
}

// Number returns the populated table number, or 0 when only the id is known.
func (r TableRef) Number() int {
	if r.Table == nil {
		return 0
	}
	return r.Table.Number
}

func (r TableRef) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

func (r *TableRef) UnmarshalJSON(data []byte) error {
	*r = TableRef{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &r.ID)
	case '{':
		var t Table
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("decode table ref: %w", err)
		}
		r.ID = t.ID
		r.Table = &t
		return nil
	default:
		return fmt.Errorf("decode table ref: unexpected %q", data)
	}
}

// MenuItemRef is the menu item referenced by an order line, by id or populated.
type MenuItemRef struct {
	ID   string
	Item *MenuItem
}

func RefMenuItem(id string) MenuItemRef {
	return MenuItemRef{ID: id}
}

func (r MenuItemRef) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

func (r *MenuItemRef) UnmarshalJSON(data []byte) error {
	*r = MenuItemRef{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &r.ID)
	case '{':
		var m MenuItem
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("decode menu item ref: %w", err)
		}
		r.ID = m.ID
		r.Item = &m
		return nil
	default:
		return fmt.Errorf("decode menu item ref: unexpected %q", data)
	}
}
