package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// OptionalString is a JSON field that records whether it was present in the payload.
// Set is true once the key was seen; Null is true when its value was JSON null.
type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		o.Value = ""
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// Ptr returns nil for an explicit null and a pointer to the value otherwise.
func (o OptionalString) Ptr() *string {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// Price accepts either a JSON number or a numeric string, as sent by HTML forms.
type Price float64

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*p = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid price %q", s)
		}
		*p = Price(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*p = Price(f)
	return nil
}
