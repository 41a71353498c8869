package export

import (
	"encoding/json"
	"os"
)

// WriteJSON marshals v to path with indentation, for sweep grids and search
// results where a CSV row shape would lose structure (nested best point,
// convergence flags).
func WriteJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// LoadJSON unmarshals the file at path into v.
func LoadJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
