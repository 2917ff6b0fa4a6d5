package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
)

type Parameter map[string]string

func (p Parameter) Encode() string {
	var parameters []string
	for key, value := range p {
		parameters = append(parameters, key+"="+PercentEncode(value))
	}
	sort.Strings(parameters)
	return strings.Join(parameters, "&")
}

func PercentEncode(s string) string {
	s = url.QueryEscape(s)
	return strings.ReplaceAll(s, "+", "%20")
}

type JSON map[string]any

type Array []JSON

func (j JSON) ToReader() (io.Reader, string, error) {
	b, err := json.Marshal(j)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewBuffer(b), "application/json", nil
}

func (a Array) ToReader() (io.Reader, string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewBuffer(b), "application/json", nil
}

// Get looks up a dot-separated path of nested objects.
func (j JSON) Get(key string) (any, error) {
	key, subKey, found := strings.Cut(key, ".")

	value, ok := j[key]
	if !ok {
		return nil, fmt.Errorf("not found field %s", key)
	}

	if !found {
		return value, nil
	}

	sub, ok := value.(JSON)
	if !ok {
		return nil, fmt.Errorf("invalid type of field %s (%T)", key, value)
	}

	return sub.Get(subKey)
}

func (j JSON) GetJSON(key string) (JSON, error) {
	value, err := j.Get(key)
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, nil
	}

	if sub, ok := value.(JSON); ok {
		return sub, nil
	}

	return nil, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (j JSON) GetArray(key string) (Array, error) {
	value, err := j.Get(key)
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, nil
	}

	if a, ok := value.(Array); ok {
		return a, nil
	}

	return nil, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (j JSON) GetString(key string) (string, error) {
	value, err := j.Get(key)
	if err != nil {
		return "", err
	}

	if value == nil {
		return "", nil
	}

	if s, ok := value.(string); ok {
		return s, nil
	}

	return "", fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (j JSON) GetInt(key string) (int, error) {
	value, err := j.Get(key)
	if err != nil {
		return 0, err
	}

	switch t := value.(type) {
	case int:
		return t, nil
	case float64:
		if t == float64(int(t)) {
			return int(t), nil
		}
		return 0, fmt.Errorf("invalid type of field %s (actually float64)", key)
	}

	return 0, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (j JSON) GetBool(key string) (bool, error) {
	value, err := j.Get(key)
	if err != nil {
		return false, err
	}

	if value == nil {
		return false, nil
	}

	if b, ok := value.(bool); ok {
		return b, nil
	}

	return false, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func bytesToJSON(b []byte) (JSON, error) {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}

	j, ok := normalizeValue(m).(JSON)
	if !ok {
		return nil, fmt.Errorf("not a json object")
	}

	return j, nil
}

func bytesToArray(b []byte) (Array, error) {
	var s []any
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}

	a, ok := normalizeValue(s).(Array)
	if !ok {
		return nil, fmt.Errorf("not an array of json objects")
	}

	return a, nil
}

// normalizeValue rewrites decoded JSON so nested objects become JSON and
// arrays of objects become Array, which the getters above expect.
func normalizeValue(value any) any {
	switch t := value.(type) {
	case map[string]any:
		j := make(JSON, len(t))
		for k, v := range t {
			j[k] = normalizeValue(v)
		}
		return j

	case []any:
		a := make(Array, 0, len(t))
		for _, v := range t {
			if j, ok := normalizeValue(v).(JSON); ok {
				a = append(a, j)
			} else {
				// Mixed or scalar arrays stay as-is.
				return t
			}
		}
		return a

	default:
		return value
	}
}
