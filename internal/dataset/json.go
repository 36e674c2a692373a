package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/sanket/internal/model"
)

// WriteJSON writes records as a JSON array of objects, 4-space
// indented, field order matching the CSV header. Nil fields serialize
// as null, never omitted.
func WriteJSON(path string, records []model.AccidentRecord) error {
	if records == nil {
		records = []model.AccidentRecord{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads a record array written by WriteJSON.
func ReadJSON(path string) ([]model.AccidentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []model.AccidentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}
