package template

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// thisKey exposes scalar sequence items inside an {{#each}} body
const thisKey = "this"

// Context is the data record a template renders against
type Context map[string]Value

// NewContext converts decoded JSON into a Context
func NewContext(data map[string]any) Context {
	ctx := make(Context, len(data))
	for k, v := range data {
		ctx[k] = FromAny(v)
	}
	return ctx
}

// Lookup resolves a key. Absent keys report false.
func (c Context) Lookup(key string) (Value, bool) {
	v, ok := c[key]
	return v, ok
}

// Clone returns a shallow copy of the context
func (c Context) Clone() Context {
	out := make(Context, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	return out
}

// child builds the context of one {{#each}} iteration: mapping items shadow the
// parent keys with their own fields, anything else is bound to "this".
func (c Context) child(item Value) Context {
	out := c.Clone()
	if fields, ok := item.AsMap(); ok {
		for k, v := range fields {
			out[k] = v
		}
		return out
	}
	out[thisKey] = item
	return out
}

// Interface converts the context into map[string]any
func (c Context) Interface() map[string]any {
	out := make(map[string]any, len(c))
	for k, v := range c {
		out[k] = v.Interface()
	}
	return out
}

// MarshalJSON encodes the context as a JSON object with sorted keys
func (c Context) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range sortedKeys(c) {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		data, err := c[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the context
func (c *Context) UnmarshalJSON(data []byte) error {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	if v.IsNull() {
		*c = nil
		return nil
	}
	m, ok := v.AsMap()
	if !ok {
		return fmt.Errorf("expected JSON object, got %s", v.Kind())
	}
	*c = m
	return nil
}
