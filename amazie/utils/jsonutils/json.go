package jsonutils

import (
	"encoding/json"
	"strings"
)

// DecodeArgs re-marshals a loosely typed argument map (as delivered by the
// model's tool calls) into a concrete struct. Unknown fields are ignored,
// wrongly typed fields surface as an error.
func DecodeArgs(args map[string]any, out any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// ToJSON serializes a Go value to a JSON string with indentation.
// Returns an empty string if serialization fails.
func ToJSON(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(bytes))
}
