package apis

import (
	"fmt"
	"slices"
)

// Reading fields a column can be mapped to.
const (
	TargetID          = "ID"
	TargetSensorID    = "SensorID"
	TargetTemperature = "Temperature"
	TargetStatus      = "Status"
	TargetReadAt      = "ReadAt"
)

var mappingTargets = []string{TargetID, TargetSensorID, TargetTemperature, TargetStatus, TargetReadAt}

const DefaultDateFormat = "2006-01-02T15:04:05Z07:00"

// ReadingMapping describes how the columns of a replay file map onto a Reading.
type ReadingMapping struct {
	Kind          string         `json:"kind" yaml:"kind"`
	Version       string         `json:"version" yaml:"version"`
	Metadata      Metadata       `json:"metadata" yaml:"metadata"`
	DateFormat    string         `json:"dateFormat" yaml:"dateFormat"`
	FieldMappings []FieldMapping `json:"fieldMappings" yaml:"fieldMappings"`
}

type Metadata struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type FieldMapping struct {
	Source   string `json:"source" yaml:"source"`
	Target   string `json:"target" yaml:"target"`
	Required bool   `json:"required" yaml:"required"`
}

func (m *ReadingMapping) Validate() error {
	if m.Kind == "" {
		return fmt.Errorf("kind is required")
	}
	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if m.Metadata.Name == "" {
		return fmt.Errorf("metadata.name is required")
	}
	if len(m.FieldMappings) == 0 {
		return fmt.Errorf("at least one field mapping is required")
	}
	for i, fm := range m.FieldMappings {
		if fm.Source == "" {
			return fmt.Errorf("fieldMappings[%d] must have source defined", i)
		}
		if !slices.Contains(mappingTargets, fm.Target) {
			return fmt.Errorf("fieldMappings[%d] has unknown target %q, expected one of %v", i, fm.Target, mappingTargets)
		}
	}
	return nil
}

func (m *ReadingMapping) Layout() string {
	if m.DateFormat == "" {
		return DefaultDateFormat
	}
	return m.DateFormat
}

type MappingError struct {
	Message string `json:"message"`
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping error: %s", e.Message)
}
