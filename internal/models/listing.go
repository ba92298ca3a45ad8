package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ResaleListing represents one HDB resale transaction returned by the backend.
// Only street_name and resale_price are interpreted; every other field is kept
// as raw JSON and written back unchanged.
type ResaleListing struct {
	StreetName  string                     `json:"street_name"`
	ResalePrice float64                    `json:"resale_price"`
	Fields      map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes a listing and keeps the descriptive fields.
// resale_price is accepted either as a JSON number or a numeric string.
func (l *ResaleListing) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode listing: %w", err)
	}

	var street string
	if v, ok := raw["street_name"]; ok && string(v) != "null" {
		if err := json.Unmarshal(v, &street); err != nil {
			return fmt.Errorf("invalid street_name: %w", err)
		}
	}

	var price float64
	if v, ok := raw["resale_price"]; ok && string(v) != "null" {
		p, err := decodePrice(v)
		if err != nil {
			return err
		}
		price = p
	}

	l.StreetName = street
	l.ResalePrice = price
	l.Fields = raw
	return nil
}

// MarshalJSON re-emits the original fields with the interpreted ones on top.
func (l ResaleListing) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(l.Fields)+2)
	for k, v := range l.Fields {
		out[k] = v
	}
	street, err := json.Marshal(l.StreetName)
	if err != nil {
		return nil, err
	}
	price, err := json.Marshal(l.ResalePrice)
	if err != nil {
		return nil, err
	}
	out["street_name"] = street
	out["resale_price"] = price
	return json.Marshal(out)
}

// Field returns a passthrough field as display text, or "" when absent.
func (l ResaleListing) Field(name string) string {
	v, ok := l.Fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	if string(v) == "null" {
		return ""
	}
	return string(v)
}

func decodePrice(v json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, fmt.Errorf("invalid resale_price: %s", string(v))
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid resale_price %q: %w", s, err)
	}
	return n, nil
}
