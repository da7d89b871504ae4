package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMap
	KindSeq
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindSeq:
		return "seq"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a JSON-like dynamic value: null, bool, number, string, mapping or sequence.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	m    Context
	seq  []Value

	// literal text of an integer too large for n to hold exactly
	raw string
}

// Null returns the null value
func Null() Value { return Value{} }

// Bool wraps a boolean
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a number
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string
func String(s string) Value { return Value{kind: KindString, s: s} }

// Map wraps a nested context. A nil context is an empty mapping, not null.
func Map(m Context) Value {
	if m == nil {
		m = Context{}
	}
	return Value{kind: KindMap, m: m}
}

// Seq wraps a sequence
func Seq(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSeq, seq: items}
}

// Kind returns the variant of the value
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether the value is a bool
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number and whether the value is a number
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string and whether the value is a string
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsMap returns the nested context and whether the value is a mapping
func (v Value) AsMap() (Context, bool) { return v.m, v.kind == KindMap }

// AsSeq returns the items and whether the value is a sequence
func (v Value) AsSeq() ([]Value, bool) { return v.seq, v.kind == KindSeq }

// Truthy reports whether the value satisfies an {{#if}} block.
// false, null, 0, "" and the empty sequence are falsy. Every mapping is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != ""
	case KindSeq:
		return len(v.seq) > 0
	default:
		return true
	}
}

// String returns the substitution text of the value
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		if v.raw != "" {
			return v.raw
		}
		return formatNumber(v.n)
	case KindString:
		return v.s
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// formatNumber prints integral values without a decimal point or exponent
func formatNumber(n float64) string {
	if n == math.Trunc(n) && !math.IsInf(n, 0) {
		if n == 0 {
			return "0"
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// maxExactInt is the largest magnitude a float64 holds every integer up to
const maxExactInt = 1 << 53

// beyondFloatPrecision reports whether s is an integer literal that float64
// cannot represent exactly
func beyondFloatPrecision(s string) bool {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	i, err := strconv.ParseInt(s, 10, 64)
	return err != nil || i > maxExactInt || i < -maxExactInt
}

// Interface converts the value back into plain Go types
// (nil, bool, float64, string, map[string]any, []any).
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindMap:
		return v.m.Interface()
	case KindSeq:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromAny converts decoded JSON (or plain Go data of the same shape) into a Value.
// Unsupported types fall back to their fmt representation.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case Context:
		return Map(t)
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		v := Number(f)
		if beyondFloatPrecision(t.String()) {
			v.raw = t.String()
		}
		return v
	case map[string]any:
		return Map(NewContext(t))
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return Seq(items...)
	case []string:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = String(item)
		}
		return Seq(items...)
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromAny(rv.Index(i).Interface())
		}
		return Seq(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		ctx := make(Context, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ctx[iter.Key().String()] = FromAny(iter.Value().Interface())
		}
		return Map(ctx)
	case reflect.Pointer:
		if rv.IsNil() {
			return Null()
		}
		return FromAny(rv.Elem().Interface())
	}
	return String(fmt.Sprint(x))
}

// MarshalJSON encodes the value as JSON. Mapping keys are emitted sorted.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if v.raw != "" {
			return []byte(v.raw), nil
		}
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return json.Marshal(formatNumber(v.n))
		}
		return []byte(formatNumber(v.n)), nil
	case KindString:
		return json.Marshal(v.s)
	case KindSeq:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return v.m.MarshalJSON()
	}
}

// UnmarshalJSON decodes any JSON document into the value
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

func sortedKeys(c Context) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
