package domain

import (
	"encoding/json"
	"time"
)

// TableSpec is a declarative description of one dataset: an ordered list of
// column rules plus a target row count. Specs are immutable once built; use
// the builder in this package to construct or derive them.
type TableSpec struct {
	Name      string       `json:"name" yaml:"name"`
	Rows      int64        `json:"rows" yaml:"rows"`
	IDColumn  bool         `json:"id_column,omitempty" yaml:"id_column,omitempty"`
	Delimiter string       `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	Columns   []ColumnSpec `json:"columns" yaml:"columns"`
}

type ColumnSpec struct {
	Name         string     `json:"name" yaml:"name"`
	Type         ColumnType `json:"type" yaml:"type"`
	PercentNulls float64    `json:"percent_nulls,omitempty" yaml:"percent_nulls,omitempty"`
	Precision    int        `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale        int        `json:"scale,omitempty" yaml:"scale,omitempty"`
	Rule         RuleSpec   `json:"rule" yaml:"rule"`
}

type ColumnType string

const (
	ColumnTypeInt       ColumnType = "int"
	ColumnTypeString    ColumnType = "string"
	ColumnTypeDecimal   ColumnType = "decimal"
	ColumnTypeTimestamp ColumnType = "timestamp"
)

// RuleSpec names a registered value rule and carries its parameters.
type RuleSpec struct {
	Type   string                 `json:"type" yaml:"type"`
	Params map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`
}

// Rule type names understood by the default registry.
const (
	RuleChoice         = "choice"
	RuleRangeInt       = "range_int"
	RuleRangeDecimal   = "range_decimal"
	RuleRangeTimestamp = "range_timestamp"
	RuleText           = "text"
	RuleExpr           = "expr"
)

// Dataset pairs a materialized table with the spec that produced it. Values
// are row-major; a nil cell is a null.
type Dataset struct {
	Spec TableSpec
	Rows [][]interface{}
}

type Run struct {
	ID          string          `json:"id" yaml:"id"`
	Namespace   string          `json:"namespace" yaml:"namespace"`
	Catalog     string          `json:"catalog" yaml:"catalog"`
	Seed        int64           `json:"seed" yaml:"seed"`
	ConfigHash  string          `json:"config_hash" yaml:"config_hash"`
	Status      RunStatus       `json:"status" yaml:"status"`
	StartedAt   time.Time       `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Stats       json.RawMessage `json:"stats,omitempty" yaml:"stats,omitempty"`
	Error       string          `json:"error,omitempty" yaml:"error,omitempty"`
}

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

type RunStats struct {
	DatasetsWritten int               `json:"datasets_written"`
	TotalRows       int64             `json:"total_rows"`
	DurationSeconds float64           `json:"duration_seconds"`
	DatasetStats    []DatasetRunStats `json:"dataset_stats"`
}

type DatasetRunStats struct {
	Dataset         string  `json:"dataset"`
	RowsWritten     int64   `json:"rows_written"`
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration_seconds"`
}
