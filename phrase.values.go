package phrase

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// CanonicalText converts a bindable value to the text that is substituted
// into a pattern. Strings are used as is, fmt.Stringer and error values via
// their methods, booleans as "true"/"false", integers in decimal and floats
// in their shortest locale-independent decimal form. A nil value, or a nil
// pointer, map, slice, func, chan or interface, is absent and fails with
// ErrNullValue.
func CanonicalText(value any) (string, error) {
	text, err := canonicalText(value)
	if err != nil {
		return "", NewNullValueError("")
	}
	return text, nil
}

func canonicalText(value any) (string, error) {
	if isNil(value) {
		return "", ErrNullValue
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case SpannedText:
		return v.Text, nil
	case fmt.Stringer:
		return v.String(), nil
	case error:
		return v.Error(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}

	// named types over basic kinds, e.g. type Count int
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.Pointer:
		return canonicalText(rv.Elem().Interface())
	}
	return fmt.Sprint(value), nil
}

// joinValues converts every element of a slice or array and joins them with
// separator. It returns the index of the first absent element on failure.
func joinValues(values any, separator string) (string, int, error) {
	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", -1, ErrNotASequence
	}
	if separator == "" {
		separator = DefaultSeparator
	}

	var sb strings.Builder
	for i := 0; i < rv.Len(); i++ {
		text, err := canonicalText(rv.Index(i).Interface())
		if err != nil {
			return "", i, err
		}
		if i > 0 {
			sb.WriteString(separator)
		}
		sb.WriteString(text)
	}
	return sb.String(), -1, nil
}

// isSequence reports whether value is a slice or array other than []byte.
func isSequence(value any) bool {
	if value == nil {
		return false
	}
	if _, ok := value.([]byte); ok {
		return false
	}
	kind := reflect.TypeOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
