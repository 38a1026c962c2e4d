package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ghanse/dlt-workshop/internal/domain"
	"github.com/ghanse/dlt-workshop/internal/registry"
)

type Validator struct {
	rules *registry.RuleRegistry
}

func NewValidator(rules *registry.RuleRegistry) *Validator {
	return &Validator{rules: rules}
}

// identifier validation: dataset and column names become directory names and
// CSV headers, so only simple identifiers are allowed.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func IsValidIdentifier(s string) bool {
	return identRe.MatchString(strings.TrimSpace(s))
}

// ValidateSpec runs every check a spec must pass before a single row is
// materialized. A malformed rule therefore never yields a partial dataset.
func (v *Validator) ValidateSpec(spec *domain.TableSpec) error {
	if spec.Name == "" {
		return errors.New("dataset name is required")
	}
	if !IsValidIdentifier(spec.Name) {
		return fmt.Errorf("invalid dataset identifier: %s", spec.Name)
	}
	if spec.Rows <= 0 {
		return fmt.Errorf("rows must be > 0, got %d", spec.Rows)
	}
	if len(spec.Columns) == 0 {
		return errors.New("dataset must have at least one column")
	}
	if len(spec.Delimiter) > 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", spec.Delimiter)
	}

	seen := make(map[string]bool)
	if spec.IDColumn {
		seen["id"] = true
	}
	for i, col := range spec.Columns {
		if err := v.validateColumn(&col, seen, spec.Columns[:i]); err != nil {
			return fmt.Errorf("column '%s': %w", col.Name, err)
		}
	}
	return nil
}

func (v *Validator) validateColumn(col *domain.ColumnSpec, seen map[string]bool, preceding []domain.ColumnSpec) error {
	if col.Name == "" {
		return errors.New("column name is required")
	}
	if !IsValidIdentifier(col.Name) {
		return fmt.Errorf("invalid column identifier: %s", col.Name)
	}
	if seen[col.Name] {
		return fmt.Errorf("duplicate column name: %s", col.Name)
	}
	seen[col.Name] = true

	if !isValidColumnType(col.Type) {
		return fmt.Errorf("invalid column type: %s", col.Type)
	}
	if col.PercentNulls < 0 || col.PercentNulls > 1 {
		return fmt.Errorf("percent_nulls must be in [0,1], got %v", col.PercentNulls)
	}
	if col.Rule.Type == "" {
		return errors.New("rule type is required")
	}

	rule, err := v.rules.Get(col.Rule.Type)
	if err != nil {
		return fmt.Errorf("rule not found: %s", col.Rule.Type)
	}
	if err := rule.Validate(*col); err != nil {
		return fmt.Errorf("rule validation failed: %w", err)
	}

	// Expressions may only read columns declared before them.
	if col.Rule.Type == domain.RuleExpr {
		source, _ := col.Rule.Params["source"].(string)
		found := false
		for _, prev := range preceding {
			if prev.Name == source {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("expression source %q must be declared before this column", source)
		}
	}

	return nil
}

func isValidColumnType(t domain.ColumnType) bool {
	switch t {
	case domain.ColumnTypeInt, domain.ColumnTypeString,
		domain.ColumnTypeDecimal, domain.ColumnTypeTimestamp:
		return true
	default:
		return false
	}
}
