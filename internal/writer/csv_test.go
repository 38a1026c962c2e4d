package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ghanse/dlt-workshop/internal/domain"
	"github.com/shopspring/decimal"
)

func testSpec() domain.TableSpec {
	return domain.NewTableSpec("items", 2).
		WithIDColumn().
		WithColumn(domain.ColumnSpec{Name: "name", Type: domain.ColumnTypeString, Rule: domain.RuleSpec{Type: domain.RuleText}}).
		WithColumn(domain.ColumnSpec{Name: "unit_price", Type: domain.ColumnTypeDecimal, Scale: 2, Rule: domain.RuleSpec{Type: domain.RuleRangeDecimal}}).
		WithColumn(domain.ColumnSpec{Name: "created", Type: domain.ColumnTypeTimestamp, Rule: domain.RuleSpec{Type: domain.RuleRangeTimestamp}}).
		Build()
}

func readPart(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "part-00000.csv"))
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestWriteHeaderAndRows(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "items")

	ts := time.Date(2022, 6, 1, 12, 30, 0, 0, time.UTC)
	ds := &domain.Dataset{
		Spec: testSpec(),
		Rows: [][]interface{}{
			{int64(0), "widget", decimal.NewFromFloat(19.5), ts},
			{int64(1), nil, decimal.NewFromInt(3), ts},
		},
	}

	if err := NewCSVWriter().Write(ds, dir); err != nil {
		t.Fatal(err)
	}

	lines := readPart(t, dir)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "id,name,unit_price,created" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "0,widget,19.50,2022-06-01 12:30:00" {
		t.Fatalf("row 0 = %q", lines[1])
	}
	if lines[2] != "1,,3.00,2022-06-01 12:30:00" {
		t.Fatalf("row 1 = %q", lines[2])
	}
}

func TestWriteCustomDelimiter(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "customers")

	spec := domain.NewTableSpec("customers", 1).
		WithDelimiter("|").
		WithColumn(domain.ColumnSpec{Name: "name", Type: domain.ColumnTypeString, Rule: domain.RuleSpec{Type: domain.RuleText}}).
		WithColumn(domain.ColumnSpec{Name: "city", Type: domain.ColumnTypeString, Rule: domain.RuleSpec{Type: domain.RuleText}}).
		Build()

	ds := &domain.Dataset{
		Spec: spec,
		Rows: [][]interface{}{{"Acme, Inc", "Springfield"}},
	}

	if err := NewCSVWriter().Write(ds, dir); err != nil {
		t.Fatal(err)
	}

	lines := readPart(t, dir)
	if lines[0] != "name|city" {
		t.Fatalf("header = %q", lines[0])
	}
	// With a pipe delimiter the embedded comma needs no quoting.
	if lines[1] != "Acme, Inc|Springfield" {
		t.Fatalf("row = %q", lines[1])
	}
}

func TestWriteReplacesPreviousContents(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "items")

	stale := filepath.Join(dir, "part-00099.csv")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	ds := &domain.Dataset{
		Spec: testSpec(),
		Rows: [][]interface{}{{int64(0), "x", decimal.NewFromInt(1), time.Now()}},
	}
	if err := NewCSVWriter().Write(ds, dir); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale part file should have been removed")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "part-00000.csv" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}

func TestWriteMissingParentFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "no", "such", "volume", "items")
	ds := &domain.Dataset{Spec: testSpec(), Rows: nil}

	if err := NewCSVWriter().Write(ds, dir); err == nil {
		t.Fatal("expected an error when the volume directory is missing")
	}
}

func TestFormatCellScaleFollowsColumn(t *testing.T) {
	spec := domain.NewTableSpec("t", 1).
		WithColumn(domain.ColumnSpec{Name: "rate", Type: domain.ColumnTypeDecimal, Scale: 4, Rule: domain.RuleSpec{Type: domain.RuleRangeDecimal}}).
		Build()

	got, err := formatCell(spec, 0, decimal.NewFromFloat(0.125))
	if err != nil {
		t.Fatal(err)
	}
	if got != "0.1250" {
		t.Fatalf("got %q, want 0.1250", got)
	}
}
