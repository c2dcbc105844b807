package dmmf

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Extra holds the object keys a type does not declare, so engine output
// survives a decode/encode cycle unchanged.
type Extra map[string]json.RawMessage

var declaredKeys sync.Map // reflect.Type -> map[string]bool

// keysOf returns the JSON keys declared by struct type t.
func keysOf(t reflect.Type) map[string]bool {
	if keys, ok := declaredKeys.Load(t); ok {
		return keys.(map[string]bool)
	}

	keys := make(map[string]bool, t.NumField())

	for i := range t.NumField() {
		f := t.Field(i)

		tag := f.Tag.Get("json")
		if !f.IsExported() || tag == "-" {
			continue
		}

		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}

		keys[name] = true
	}

	declaredKeys.Store(t, keys)

	return keys
}

// decodeObject decodes data into known, a pointer to a struct without a
// custom UnmarshalJSON, and returns the keys known does not declare.
func decodeObject(data []byte, known any) (Extra, error) {
	if err := json.Unmarshal(data, known); err != nil {
		return nil, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	declared := keysOf(reflect.TypeOf(known).Elem())

	var extra Extra

	for key, value := range all {
		if declared[key] {
			continue
		}

		if extra == nil {
			extra = make(Extra)
		}

		extra[key] = value
	}

	return extra, nil
}

// encodeObject encodes known and adds the extra keys it does not emit.
func encodeObject(known any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	for key, value := range extra {
		if _, ok := out[key]; !ok {
			out[key] = value
		}
	}

	return json.Marshal(out)
}
