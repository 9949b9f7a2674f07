package api

import (
	"encoding/json"
	"strings"
)

// TagList is used to unmarshal/marshal either a single comma-joined string value or a string array
type TagList struct {
	Values []string
}

// UnmarshalYAML customizes unmarshalling a TagList
func (t *TagList) UnmarshalYAML(unmarshal func(interface{}) error) (err error) {
	var multi []string
	err = unmarshal(&multi)
	if err != nil {
		var single string
		err := unmarshal(&single)
		if err != nil {
			return err
		}
		if single != "" {
			t.Values = splitAndTrim(single)
		}
	} else {
		t.Values = multi
	}
	return nil
}

// MarshalYAML customizes marshalling a TagList
func (t TagList) MarshalYAML() (out interface{}, err error) {

	if len(t.Values) == 1 {
		return t.Values[0], err
	} else if len(t.Values) > 0 {
		return t.Values, err
	}

	return "", err
}

// UnmarshalJSON customizes unmarshalling a TagList
func (t *TagList) UnmarshalJSON(b []byte) error {

	var multi []string
	err := json.Unmarshal(b, &multi)
	if err != nil {
		var single string
		err := json.Unmarshal(b, &single)
		if err != nil {
			return err
		}
		if single != "" {
			t.Values = splitAndTrim(single)
		}
	} else {
		t.Values = multi
	}
	return nil
}

// MarshalJSON customizes marshalling a TagList
func (t TagList) MarshalJSON() ([]byte, error) {

	if len(t.Values) == 1 {
		return json.Marshal(t.Values[0])
	} else if len(t.Values) > 0 {
		return json.Marshal(t.Values)
	}

	return json.Marshal("")
}

// Contains checks whether a value is present in the list
func (t TagList) Contains(value string) bool {
	for _, v := range t.Values {
		if v == value {
			return true
		}
	}
	return false
}

// splitAndTrim splits a comma-joined tag string into trimmed segments, dropping empty ones
func splitAndTrim(value string) (values []string) {
	for _, segment := range strings.Split(value, ",") {
		segment = strings.TrimSpace(segment)
		if segment != "" {
			values = append(values, segment)
		}
	}
	return
}
