package workshop

import (
	"testing"
	"time"

	"github.com/ghanse/dlt-workshop/internal/build"
	"github.com/ghanse/dlt-workshop/internal/domain"
	"github.com/ghanse/dlt-workshop/internal/registry"
	"github.com/ghanse/dlt-workshop/internal/timeutil"
)

func TestDatasetRowCounts(t *testing.T) {
	cases := []struct {
		spec domain.TableSpec
		rows int64
	}{
		{Customers(), 100},
		{SuppliersCDC(), 20},
		{Items(), 1000},
		{Orders(), 10000},
		{OrdersNew(), 1000},
		{OrdersBacklog(), 100000},
	}
	for _, c := range cases {
		if c.spec.Rows != c.rows {
			t.Errorf("%s: rows = %d, want %d", c.spec.Name, c.spec.Rows, c.rows)
		}
	}
}

func TestDatasetNames(t *testing.T) {
	want := []string{"customers", "suppliers_cdc", "items", "orders", "orders_new", "orders_backlog"}
	all := All()
	if len(all) != len(want) {
		t.Fatalf("got %d datasets, want %d", len(all), len(want))
	}
	for i, spec := range all {
		if spec.Name != want[i] {
			t.Errorf("dataset %d: name = %s, want %s", i, spec.Name, want[i])
		}
	}
}

func TestAllSpecsValidate(t *testing.T) {
	b := build.NewBuilder(registry.DefaultRuleRegistry(), 1)
	for _, spec := range All() {
		small := domain.Derive(spec).WithRowCount(5).Build()
		if _, err := b.Build(small, 1); err != nil {
			t.Errorf("%s: %v", spec.Name, err)
		}
	}
}

func TestCustomersUsePipeDelimiter(t *testing.T) {
	if d := Customers().Delimiter; d != "|" {
		t.Fatalf("customers delimiter = %q", d)
	}
	for _, spec := range All() {
		if spec.Name == "customers" {
			continue
		}
		if spec.Delimiter != "," {
			t.Errorf("%s: delimiter = %q, want comma", spec.Name, spec.Delimiter)
		}
	}
}

func TestSuppliersCDCHasExplicitID(t *testing.T) {
	spec := SuppliersCDC()
	if spec.IDColumn {
		t.Fatal("suppliers_cdc must not auto-generate ids")
	}
	found := false
	for _, col := range spec.Columns {
		if col.Name == "id" {
			found = true
		}
	}
	if !found {
		t.Fatal("suppliers_cdc must carry an explicit id column")
	}
}

func TestOrdersNewOverridesOnlyBusinessUnit(t *testing.T) {
	base := Orders()
	derived := OrdersNew()

	if len(derived.Columns) != len(base.Columns) {
		t.Fatalf("column count changed: %d vs %d", len(derived.Columns), len(base.Columns))
	}
	for i, col := range derived.Columns {
		if col.Name != base.Columns[i].Name {
			t.Fatalf("column %d renamed: %s vs %s", i, col.Name, base.Columns[i].Name)
		}
		if col.Name == "business_unit" {
			values := col.Rule.Params["values"].([]interface{})
			if len(values) != 1 || values[0] != "direct_to_consumer" {
				t.Fatalf("business_unit values = %v", values)
			}
			continue
		}
		if col.Rule.Type != base.Columns[i].Rule.Type {
			t.Fatalf("column %s rule changed", col.Name)
		}
	}
}

func TestOrdersNewBusinessUnitIsConstant(t *testing.T) {
	b := build.NewBuilder(registry.DefaultRuleRegistry(), 2)
	spec := domain.Derive(OrdersNew()).WithRowCount(50).Build()

	ds, err := b.Build(spec, 7)
	if err != nil {
		t.Fatal(err)
	}
	// id is column 0, business_unit is the last declared column.
	buIdx := len(spec.Columns)
	for i, row := range ds.Rows {
		if row[buIdx] != "direct_to_consumer" {
			t.Fatalf("row %d: business_unit = %v", i, row[buIdx])
		}
	}
}

func TestOrdersBacklogShiftsDateWindow(t *testing.T) {
	spec := OrdersBacklog()
	var params map[string]interface{}
	for _, col := range spec.Columns {
		if col.Name == "order_date" {
			params = col.Rule.Params
		}
	}
	if params == nil {
		t.Fatal("order_date column missing")
	}
	if params["min"] != "2000-01-01 00:00:00" || params["max"] != "2020-01-01 00:00:00" {
		t.Fatalf("order_date window = %v..%v", params["min"], params["max"])
	}

	// The backlog window ends where the live orders window begins.
	base := Orders()
	for _, col := range base.Columns {
		if col.Name == "order_date" && col.Rule.Params["min"] != params["max"] {
			t.Fatalf("backlog max %v should equal orders min %v", params["max"], col.Rule.Params["min"])
		}
	}
}

func TestOrdersBacklogDatesStayInWindow(t *testing.T) {
	b := build.NewBuilder(registry.DefaultRuleRegistry(), 2)
	spec := domain.Derive(OrdersBacklog()).WithRowCount(200).Build()

	ds, err := b.Build(spec, 3)
	if err != nil {
		t.Fatal(err)
	}

	min, err := timeutil.ParseTimestamp("2000-01-01 00:00:00")
	if err != nil {
		t.Fatal(err)
	}
	max, err := timeutil.ParseTimestamp("2020-01-01 00:00:00")
	if err != nil {
		t.Fatal(err)
	}

	for i, row := range ds.Rows {
		ts, ok := row[1].(time.Time)
		if !ok {
			t.Fatalf("row %d: order_date is %T", i, row[1])
		}
		if ts.Before(min) || ts.After(max) {
			t.Fatalf("row %d: order_date %v outside window", i, ts)
		}
	}
}

func TestDeriveDoesNotMutateBase(t *testing.T) {
	OrdersNew()
	OrdersBacklog()

	base := Orders()
	for _, col := range base.Columns {
		if col.Name == "business_unit" {
			values := col.Rule.Params["values"].([]interface{})
			if len(values) != 2 {
				t.Fatalf("orders business_unit was mutated: %v", values)
			}
		}
		if col.Name == "order_date" && col.Rule.Params["min"] != "2020-01-01 00:00:00" {
			t.Fatalf("orders order_date was mutated: %v", col.Rule.Params["min"])
		}
	}
}
