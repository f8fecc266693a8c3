// Package jsonimport builds a value.Value tree directly from raw JSON
// bytes using buger/jsonparser's streaming token walk, so json.parse and
// net.json never need a generic map[string]interface{} intermediate
// (spec §4.4.6, SPEC_FULL.md §2.2).
package jsonimport

import (
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/aidoku-host/aidoku-host/internal/value"
)

// Parse converts data into a value.Value, or an error if data is not
// valid JSON. The caller (json.parse, net.json) converts a non-nil error
// into the documented -1 sentinel.
func Parse(data []byte) (value.Value, error) {
	trimmed := skipLeadingSpace(data)
	if len(trimmed) == 0 {
		return value.Null, fmt.Errorf("jsonimport: empty input")
	}
	switch trimmed[0] {
	case '{':
		return parseObject(trimmed)
	case '[':
		return parseArray(trimmed)
	default:
		return parseScalar(trimmed, jsonparser.Unknown)
	}
}

func skipLeadingSpace(b []byte) []byte {
	i := 0
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return b[i:]
		}
	}
	return b[i:]
}

func parseObject(data []byte) (value.Value, error) {
	out := make(map[string]value.Value)
	var walkErr error
	err := jsonparser.ObjectEach(data, func(key []byte, val []byte, dataType jsonparser.ValueType, offset int) error {
		if walkErr != nil {
			return nil
		}
		v, err := fromTyped(val, dataType)
		if err != nil {
			walkErr = err
			return nil
		}
		out[string(key)] = v
		return nil
	})
	if err != nil {
		return value.Null, fmt.Errorf("jsonimport: parse object: %w", err)
	}
	if walkErr != nil {
		return value.Null, fmt.Errorf("jsonimport: parse object value: %w", walkErr)
	}
	return value.NewObject(out), nil
}

func parseArray(data []byte) (value.Value, error) {
	var items []value.Value
	var walkErr error
	_, err := jsonparser.ArrayEach(data, func(val []byte, dataType jsonparser.ValueType, offset int, err error) {
		if err != nil || walkErr != nil {
			if err != nil {
				walkErr = err
			}
			return
		}
		v, convErr := fromTyped(val, dataType)
		if convErr != nil {
			walkErr = convErr
			return
		}
		items = append(items, v)
	})
	if err != nil {
		return value.Null, fmt.Errorf("jsonimport: parse array: %w", err)
	}
	if walkErr != nil {
		return value.Null, fmt.Errorf("jsonimport: parse array element: %w", walkErr)
	}
	return value.NewArray(items), nil
}

func parseScalar(data []byte, dataType jsonparser.ValueType) (value.Value, error) {
	v, t, _, err := jsonparser.Get(data)
	if err != nil {
		return value.Null, fmt.Errorf("jsonimport: parse scalar: %w", err)
	}
	return fromTyped(v, t)
}

// fromTyped converts one jsonparser (value, type) pair into a value.Value,
// recursing for nested objects/arrays. Integers that fit in i64 become
// Int; every other number becomes Float, per spec §4.4.6.
func fromTyped(val []byte, dataType jsonparser.ValueType) (value.Value, error) {
	switch dataType {
	case jsonparser.Null:
		return value.Null, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(val)
		if err != nil {
			return value.Null, fmt.Errorf("jsonimport: parse bool: %w", err)
		}
		return value.NewBool(b), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(val)
		if err != nil {
			return value.Null, fmt.Errorf("jsonimport: parse string: %w", err)
		}
		return value.NewString(s), nil
	case jsonparser.Number:
		if i, err := jsonparser.ParseInt(val); err == nil {
			return value.NewInt(i), nil
		}
		f, err := jsonparser.ParseFloat(val)
		if err != nil {
			return value.Null, fmt.Errorf("jsonimport: parse number: %w", err)
		}
		return value.NewFloat(f), nil
	case jsonparser.Object:
		return parseObject(val)
	case jsonparser.Array:
		return parseArray(val)
	default:
		return value.Null, fmt.Errorf("jsonimport: unsupported json type %v", dataType)
	}
}
