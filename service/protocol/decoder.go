package protocol

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/viant/structology/conv"
)

// maxExactInteger is the largest integer a JSON number carries without loss
const maxExactInteger = 1 << 53

// Decoder converts request bodies into typed action inputs.
//
// Body keys match input field names ignoring case. Each value is checked
// against the kind of its field before conversion: text fields take strings,
// integer fields take integral numbers or numeric strings, list fields take
// arrays of strings. Fields tagged json:"-" are never populated from a body.
type Decoder struct {
	converter *conv.Converter
}

// NewDecoder creates a decoder
func NewDecoder() *Decoder {
	options := conv.DefaultOptions()
	options.IgnoreUnmapped = true
	return &Decoder{converter: conv.NewConverter(options)}
}

// Decode populates target from body and validates it when target is a Validator
func (d *Decoder) Decode(body Body, target interface{}) error {
	if target == nil {
		return nil
	}
	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Ptr || value.IsNil() || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("unsupported input type: %T", target)
	}
	values, err := normalize(body, value.Elem().Type())
	if err != nil {
		return err
	}
	if len(values) > 0 {
		if err = d.converter.Convert(values, target); err != nil {
			return Validation("Invalid request body: %v", err)
		}
	}
	if validator, ok := target.(Validator); ok {
		return validator.Validate()
	}
	return nil
}

// normalize returns body values keyed by field name and converted to the field kind
func normalize(body Body, target reflect.Type) (map[string]interface{}, error) {
	ret := make(map[string]interface{}, len(body))
	for key, value := range body {
		if value == nil {
			continue
		}
		field, ok := lookupField(target, key)
		if !ok {
			continue
		}
		converted, ok := coerce(field.Type, value)
		if !ok {
			return nil, Validation("Invalid %v.", key)
		}
		ret[field.Name] = converted
	}
	return ret, nil
}

func lookupField(target reflect.Type, key string) (reflect.StructField, bool) {
	for i := 0; i < target.NumField(); i++ {
		field := target.Field(i)
		if !field.IsExported() || field.Anonymous || field.Tag.Get("json") == "-" {
			continue
		}
		if strings.EqualFold(field.Name, key) {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

func coerce(fieldType reflect.Type, value interface{}) (interface{}, bool) {
	switch fieldType.Kind() {
	case reflect.String:
		text, ok := value.(string)
		return strings.TrimSpace(text), ok
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := asInteger(value)
		if !ok || reflect.Zero(fieldType).OverflowInt(n) {
			return nil, false
		}
		return reflect.ValueOf(n).Convert(fieldType).Interface(), true
	case reflect.Float32, reflect.Float64:
		f, ok := asFloat(value)
		if !ok {
			return nil, false
		}
		return reflect.ValueOf(f).Convert(fieldType).Interface(), true
	case reflect.Bool:
		b, ok := value.(bool)
		return b, ok
	case reflect.Slice:
		if fieldType.Elem().Kind() != reflect.String {
			return value, true
		}
		return asStrings(value)
	}
	return value, true
}

func asInteger(value interface{}) (int64, bool) {
	switch actual := value.(type) {
	case int:
		return int64(actual), true
	case int32:
		return int64(actual), true
	case int64:
		return actual, true
	case float32:
		return integral(float64(actual))
	case float64:
		return integral(actual)
	case json.Number:
		n, err := actual.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(actual), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.Trunc(f) != f || math.Abs(f) > maxExactInteger {
		return 0, false
	}
	return int64(f), true
}

func asFloat(value interface{}) (float64, bool) {
	switch actual := value.(type) {
	case int:
		return float64(actual), true
	case int32:
		return float64(actual), true
	case int64:
		return float64(actual), true
	case float32:
		return float64(actual), true
	case float64:
		return actual, !math.IsNaN(actual) && !math.IsInf(actual, 0)
	case json.Number:
		f, err := actual.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(actual), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return 0, false
}

func asStrings(value interface{}) ([]string, bool) {
	switch actual := value.(type) {
	case []string:
		ret := make([]string, 0, len(actual))
		for _, item := range actual {
			ret = append(ret, strings.TrimSpace(item))
		}
		return ret, true
	case []interface{}:
		ret := make([]string, 0, len(actual))
		for _, item := range actual {
			text, ok := item.(string)
			if !ok {
				return nil, false
			}
			ret = append(ret, strings.TrimSpace(text))
		}
		return ret, true
	}
	return nil, false
}
