package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ExtraFields is a side-map of record fields outside the known schema.
// Older exports and hand-edited backups sometimes carry keys the typed model
// does not know about; they are preserved verbatim and only interpreted at
// the editing boundary, where the value's runtime shape (bool, number, text)
// decides how it is presented.
type ExtraFields map[string]interface{}

// Value implements driver.Valuer, serializing the map as JSON text
func (e ExtraFields) Value() (driver.Value, error) {
	if len(e) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extra fields: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (e *ExtraFields) Scan(value interface{}) error {
	if value == nil {
		*e = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for extra fields: %T", value)
	}

	if len(data) == 0 {
		*e = nil
		return nil
	}
	return json.Unmarshal(data, e)
}
