package model

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Number is a numeric input field. It decodes from JSON/TOML numbers,
// numeric strings, blanks and nulls. Anything that does not parse becomes 0;
// decoding never fails so a half-typed form still produces a configuration.
type Number float64

// ParseNumber coerces free text into a Number, returning 0 for blank or
// non-numeric input.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Number(f)
}

// Float returns the value as a float64.
func (n Number) Float() float64 {
	return float64(n)
}

// OrDefault returns n unless it is zero or negative, in which case def is returned.
func (n Number) OrDefault(def float64) float64 {
	if n <= 0 {
		return def
	}
	return float64(n)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		*n = ParseNumber(s)
		return nil
	}
	*n = ParseNumber(string(data))
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (n *Number) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case int64:
		*n = Number(val)
	case float64:
		*n = ParseNumber(strconv.FormatFloat(val, 'f', -1, 64))
	case string:
		*n = ParseNumber(val)
	default:
		*n = 0
	}
	return nil
}

// Flag is a boolean input field that also accepts checkbox style strings
// ("on", "yes", "1").
type Flag bool

// ParseFlag coerces free text into a Flag. Unrecognised text is false.
func ParseFlag(s string) Flag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on", "checked":
		return true
	default:
		return false
	}
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = false
			return nil
		}
		*f = ParseFlag(s)
		return nil
	}
	*f = ParseFlag(string(data))
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (f *Flag) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case bool:
		*f = Flag(val)
	case int64:
		*f = val != 0
	case string:
		*f = ParseFlag(val)
	default:
		*f = false
	}
	return nil
}

// MixRatio is an N-part mix such as cement:sand (1:4) or
// cement:sand:gravel (1:2:4). It is written as "1:4" in forms and files.
type MixRatio []float64

// ParseRatio parses "1:4", "1:2:4" or "1,4". Malformed, negative or
// all-zero ratios return nil so callers fall back to a default.
func ParseRatio(s string) MixRatio {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ':' || r == ',' || r == '/'
	})
	parts := make(MixRatio, 0, len(fields))
	for _, field := range fields {
		f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		parts = append(parts, f)
	}
	if parts.Sum() <= 0 {
		return nil
	}
	return parts
}

// Sum returns the total number of parts.
func (r MixRatio) Sum() float64 {
	var total float64
	for _, p := range r {
		total += p
	}
	return total
}

// Valid reports whether the ratio can split a volume.
func (r MixRatio) Valid() bool {
	return len(r) > 0 && r.Sum() > 0
}

// Or returns r when valid, otherwise def.
func (r MixRatio) Or(def MixRatio) MixRatio {
	if r.Valid() {
		return r
	}
	return def
}

func (r MixRatio) String() string {
	parts := make([]string, len(r))
	for i, p := range r {
		parts[i] = strconv.FormatFloat(p, 'f', -1, 64)
	}
	return strings.Join(parts, ":")
}

func (r MixRatio) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *MixRatio) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*r = nil
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*r = nil
			return nil
		}
		*r = ParseRatio(s)
	case '[':
		var parts []Number
		if err := json.Unmarshal(data, &parts); err != nil {
			*r = nil
			return nil
		}
		*r = ratioFromNumbers(parts)
	default:
		*r = nil
	}
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (r *MixRatio) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		*r = ParseRatio(val)
	case []any:
		parts := make([]Number, 0, len(val))
		for _, item := range val {
			var n Number
			_ = n.UnmarshalTOML(item)
			parts = append(parts, n)
		}
		*r = ratioFromNumbers(parts)
	default:
		*r = nil
	}
	return nil
}

func ratioFromNumbers(parts []Number) MixRatio {
	ratio := make(MixRatio, len(parts))
	for i, p := range parts {
		if p < 0 {
			return nil
		}
		ratio[i] = float64(p)
	}
	if ratio.Sum() <= 0 {
		return nil
	}
	return ratio
}

// SetField assigns a form value to the field of target (a pointer to a
// configuration struct) whose json name matches name. Nested fields use a
// dotted path ("tier.skill"); embedded structs are searched transparently.
// It returns false when no such field exists.
func SetField(target any, name, value string) bool {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return false
	}
	field, ok := lookupField(v.Elem(), strings.ToLower(strings.TrimSpace(name)))
	if !ok || !field.CanSet() {
		return false
	}
	return assignField(field, value)
}

func lookupField(v reflect.Value, name string) (reflect.Value, bool) {
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	head, rest, nested := strings.Cut(name, ".")
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := v.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if f, ok := lookupField(fv, name); ok {
				return f, true
			}
			continue
		}
		if jsonName(sf) != head {
			continue
		}
		if nested {
			return lookupField(fv, rest)
		}
		return fv, true
	}
	return reflect.Value{}, false
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(sf.Name)
	}
	return name
}

func assignField(field reflect.Value, value string) bool {
	switch p := field.Addr().Interface().(type) {
	case *Number:
		*p = ParseNumber(value)
	case **Number:
		if strings.TrimSpace(value) == "" {
			*p = nil
			return true
		}
		n := ParseNumber(value)
		*p = &n
	case *Flag:
		*p = ParseFlag(value)
	case *MixRatio:
		*p = ParseRatio(value)
	default:
		if field.Kind() != reflect.String {
			return false
		}
		field.SetString(strings.TrimSpace(value))
	}
	return true
}
