package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
)

// errNotObject is returned when a resource is not a JSON object.
var errNotObject = errors.New("resource is not a JSON object")

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// decodeObject fills the exported fields of the struct dst points to from
// the JSON object b, one field at a time. A field whose value has an
// unexpected type is left at its zero value; only a non-object b fails.
func decodeObject(b []byte, dst any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil || fields == nil {
		return errNotObject
	}
	fillStruct(fields, reflect.ValueOf(dst).Elem())
	return nil
}

func fillStruct(fields map[string]json.RawMessage, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if raw, ok := fields[name]; ok {
			fill(raw, v.Field(i))
		}
	}
}

func fill(raw json.RawMessage, v reflect.Value) {
	if reflect.PointerTo(v.Type()).Implements(unmarshalerType) {
		_ = json.Unmarshal(raw, v.Addr().Interface())
		return
	}

	switch v.Kind() {
	case reflect.Struct:
		var fields map[string]json.RawMessage
		if json.Unmarshal(raw, &fields) == nil {
			fillStruct(fields, v)
		}
	case reflect.Slice:
		var elems []json.RawMessage
		if json.Unmarshal(raw, &elems) != nil {
			return
		}
		s := reflect.MakeSlice(v.Type(), len(elems), len(elems))
		for i, e := range elems {
			fill(e, s.Index(i))
		}
		v.Set(s)
	default:
		tmp := reflect.New(v.Type())
		if json.Unmarshal(raw, tmp.Interface()) == nil {
			v.Set(tmp.Elem())
		}
	}
}
