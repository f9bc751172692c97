package listing

import "strconv"

// Document is the raw hydration payload of one listing page, kept as a
// generic JSON tree. Every access goes through an explicit
// present-and-non-null check; absence is reported to the caller, never
// papered over with a sentinel.
type Document map[string]interface{}

func objectField(obj map[string]interface{}, field string) (map[string]interface{}, bool) {
	value, ok := obj[field]
	if !ok || value == nil {
		return nil, false
	}
	nested, ok := value.(map[string]interface{})
	return nested, ok
}

func listField(obj map[string]interface{}, field string) ([]interface{}, bool) {
	value, ok := obj[field]
	if !ok || value == nil {
		return nil, false
	}
	list, ok := value.([]interface{})
	return list, ok
}

func stringField(obj map[string]interface{}, field string) (string, bool) {
	value, ok := obj[field]
	if !ok || value == nil {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// floatField accepts both JSON numbers and numeric strings; the source
// encodes coordinates either way depending on the page version.
func floatField(obj map[string]interface{}, field string) (float64, bool) {
	value, ok := obj[field]
	if !ok || value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}
