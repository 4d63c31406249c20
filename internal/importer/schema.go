package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for schedule import.
type ImportSchema struct {
	Project      ProjectImport      `json:"project"`
	Tasks        []TaskImport       `json:"tasks"`
	Dependencies []DependencyImport `json:"dependencies,omitempty"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	Name       string  `json:"name"`
	Contractor string  `json:"contractor,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
}

// TaskImport defines one schedule row in the import file. Dates accept
// ISO YYYY-MM-DD as well as DD/MM/YYYY and DD/MM/YY site formats.
type TaskImport struct {
	Ref         string   `json:"ref"`
	ParentRef   *string  `json:"parent_ref,omitempty"`
	Title       string   `json:"title"`
	Type        string   `json:"type,omitempty"`
	Status      string   `json:"status,omitempty"`
	Order       int      `json:"order"`
	PlanStart   string   `json:"plan_start"`
	PlanEnd     string   `json:"plan_end"`
	ActualStart *string  `json:"actual_start,omitempty"`
	ActualEnd   *string  `json:"actual_end,omitempty"`
	Progress    *float64 `json:"progress,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
}

// DependencyImport defines a finish-to-start link between two tasks.
type DependencyImport struct {
	PredecessorRef string `json:"predecessor_ref"`
	SuccessorRef   string `json:"successor_ref"`
}

// LoadImportSchema reads and parses a schedule import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
