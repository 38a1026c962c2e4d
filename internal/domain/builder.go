package domain

// SpecBuilder assembles a TableSpec column by column. Builders never share
// state with the specs they produce: Build returns a deep copy, and Derive
// takes one, so a derived spec cannot mutate its base.
type SpecBuilder struct {
	spec TableSpec
}

func NewTableSpec(name string, rows int64) *SpecBuilder {
	return &SpecBuilder{spec: TableSpec{Name: name, Rows: rows, Delimiter: ","}}
}

// Derive starts a builder from an existing spec. Unmodified columns keep
// their rules verbatim; WithColumn and WithRowCount override in place.
func Derive(base TableSpec) *SpecBuilder {
	return &SpecBuilder{spec: copySpec(base)}
}

func (b *SpecBuilder) WithIDColumn() *SpecBuilder {
	b.spec.IDColumn = true
	return b
}

func (b *SpecBuilder) WithRowCount(rows int64) *SpecBuilder {
	b.spec.Rows = rows
	return b
}

func (b *SpecBuilder) WithDelimiter(delimiter string) *SpecBuilder {
	b.spec.Delimiter = delimiter
	return b
}

// WithColumn appends a column, or replaces an existing column of the same
// name without changing its position.
func (b *SpecBuilder) WithColumn(col ColumnSpec) *SpecBuilder {
	for i := range b.spec.Columns {
		if b.spec.Columns[i].Name == col.Name {
			b.spec.Columns[i] = copyColumn(col)
			return b
		}
	}
	b.spec.Columns = append(b.spec.Columns, copyColumn(col))
	return b
}

func (b *SpecBuilder) Build() TableSpec {
	return copySpec(b.spec)
}

func copySpec(s TableSpec) TableSpec {
	out := s
	out.Columns = make([]ColumnSpec, len(s.Columns))
	for i, c := range s.Columns {
		out.Columns[i] = copyColumn(c)
	}
	return out
}

func copyColumn(c ColumnSpec) ColumnSpec {
	out := c
	out.Rule = RuleSpec{Type: c.Rule.Type, Params: copyParams(c.Rule.Params)}
	return out
}

func copyParams(params map[string]interface{}) map[string]interface{} {
	if params == nil {
		return nil
	}
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return copyParams(val)
	case []interface{}:
		list := make([]interface{}, len(val))
		for i, item := range val {
			list[i] = copyValue(item)
		}
		return list
	default:
		return v
	}
}
