package build

import (
	"strings"
	"testing"

	"github.com/ghanse/dlt-workshop/internal/domain"
	"github.com/ghanse/dlt-workshop/internal/registry"
)

func newTestBuilder(workers int) *Builder {
	return NewBuilder(registry.DefaultRuleRegistry(), workers)
}

func intCol(name string, min, max int64) domain.ColumnSpec {
	return domain.ColumnSpec{
		Name: name,
		Type: domain.ColumnTypeInt,
		Rule: domain.RuleSpec{
			Type:   domain.RuleRangeInt,
			Params: map[string]interface{}{"min": min, "max": max},
		},
	}
}

func TestBuildExactRowCount(t *testing.T) {
	for _, workers := range []int{1, 3, 4, 16} {
		b := newTestBuilder(workers)
		spec := domain.NewTableSpec("t", 137).
			WithIDColumn().
			WithColumn(intCol("n", 1, 10)).
			Build()

		ds, err := b.Build(spec, 1)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if int64(len(ds.Rows)) != spec.Rows {
			t.Fatalf("workers=%d: got %d rows, want %d", workers, len(ds.Rows), spec.Rows)
		}
	}
}

func TestBuildIDColumnIsSequential(t *testing.T) {
	b := newTestBuilder(4)
	spec := domain.NewTableSpec("t", 50).
		WithIDColumn().
		WithColumn(intCol("n", 1, 10)).
		Build()

	ds, err := b.Build(spec, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range ds.Rows {
		if row[0] != int64(i) {
			t.Fatalf("row %d: id = %v", i, row[0])
		}
	}
}

func TestBuildColumnOrder(t *testing.T) {
	b := newTestBuilder(2)
	spec := domain.NewTableSpec("t", 5).
		WithColumn(intCol("a", 1, 1)).
		WithColumn(intCol("b", 2, 2)).
		WithColumn(intCol("c", 3, 3)).
		Build()

	ds, err := b.Build(spec, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range ds.Rows {
		if row[0] != int64(1) || row[1] != int64(2) || row[2] != int64(3) {
			t.Fatalf("row %d out of order: %v", i, row)
		}
	}
}

func TestBuildFailsBeforeAnyRow(t *testing.T) {
	b := newTestBuilder(2)
	spec := domain.NewTableSpec("t", 100).
		WithColumn(intCol("ok", 1, 10)).
		WithColumn(intCol("bad", 10, 1)).
		Build()

	ds, err := b.Build(spec, 1)
	if err == nil {
		t.Fatal("expected validation error for inverted range")
	}
	if ds != nil {
		t.Fatal("expected no dataset on validation failure")
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Fatalf("error should name the offending column: %v", err)
	}
}

func TestBuildEmptyChoiceFails(t *testing.T) {
	b := newTestBuilder(2)
	spec := domain.NewTableSpec("t", 10).
		WithColumn(domain.ColumnSpec{
			Name: "c",
			Type: domain.ColumnTypeString,
			Rule: domain.RuleSpec{
				Type:   domain.RuleChoice,
				Params: map[string]interface{}{"values": []interface{}{}},
			},
		}).
		Build()

	if _, err := b.Build(spec, 1); err == nil {
		t.Fatal("expected validation error for empty choice values")
	}
}

func TestBuildNullInjection(t *testing.T) {
	b := newTestBuilder(3)
	always := intCol("always_null", 1, 10)
	always.PercentNulls = 1.0
	never := intCol("never_null", 1, 10)

	spec := domain.NewTableSpec("t", 100).
		WithColumn(always).
		WithColumn(never).
		Build()

	ds, err := b.Build(spec, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range ds.Rows {
		if row[0] != nil {
			t.Fatalf("row %d: expected null, got %v", i, row[0])
		}
		if row[1] == nil {
			t.Fatalf("row %d: unexpected null", i)
		}
	}
}

func TestBuildExpressionSeesPreNullValue(t *testing.T) {
	b := newTestBuilder(2)

	name := domain.ColumnSpec{
		Name:         "customer_name",
		Type:         domain.ColumnTypeString,
		PercentNulls: 1.0,
		Rule: domain.RuleSpec{
			Type:   domain.RuleChoice,
			Params: map[string]interface{}{"values": []interface{}{"Globex Inc"}},
		},
	}
	email := domain.ColumnSpec{
		Name: "email",
		Type: domain.ColumnTypeString,
		Rule: domain.RuleSpec{
			Type:   domain.RuleExpr,
			Params: map[string]interface{}{"name": "email", "source": "customer_name"},
		},
	}

	spec := domain.NewTableSpec("t", 20).
		WithColumn(name).
		WithColumn(email).
		Build()

	ds, err := b.Build(spec, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range ds.Rows {
		if row[0] != nil {
			t.Fatalf("row %d: name should be nulled", i)
		}
		if row[1] != "GlobexInc@example.com" {
			t.Fatalf("row %d: email should derive from the un-nulled name, got %v", i, row[1])
		}
	}
}

func TestSplitRowsCoversAllRows(t *testing.T) {
	cases := []struct {
		rows    int64
		workers int
	}{
		{1, 4}, {4, 4}, {5, 4}, {100, 3}, {137, 16},
	}
	for _, c := range cases {
		chunks := splitRows(c.rows, c.workers)
		var covered int64
		prevEnd := int64(0)
		for _, ch := range chunks {
			if ch.start != prevEnd {
				t.Fatalf("rows=%d workers=%d: gap at %d", c.rows, c.workers, ch.start)
			}
			covered += ch.end - ch.start
			prevEnd = ch.end
		}
		if covered != c.rows {
			t.Fatalf("rows=%d workers=%d: covered %d", c.rows, c.workers, covered)
		}
	}
}
