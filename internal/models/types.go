package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONBStringArray: %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// CookingStep is one instruction of a recipe as shown in a mentor session
type CookingStep struct {
	StepNumber          int    `json:"step_number"`
	Instruction         string `json:"instruction"`
	DurationSeconds     int    `json:"duration_seconds"`
	RequiresVisualCheck bool   `json:"requires_visual_check,omitempty"`
}

// CookingSteps stores an ordered step list as JSON
type CookingSteps []CookingStep

// Value implements the driver.Valuer interface
func (s CookingSteps) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (s *CookingSteps) Scan(value interface{}) error {
	if value == nil {
		*s = CookingSteps{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type for CookingSteps: %T", value)
	}
}
