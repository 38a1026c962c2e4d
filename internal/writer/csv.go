package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ghanse/dlt-workshop/internal/domain"
	"github.com/ghanse/dlt-workshop/internal/timeutil"
	"github.com/shopspring/decimal"
)

// CSVWriter serializes a materialized dataset into a per-dataset directory of
// part files with a header row. A write fully replaces whatever was at the
// destination before; repeated runs never append.
type CSVWriter struct{}

func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

const partFileName = "part-00000.csv"

// Write stores the dataset under dir using the spec's field delimiter. The
// parent of dir must already exist (the volume is provisioned separately);
// a missing parent is a hard failure.
func (w *CSVWriter) Write(ds *domain.Dataset, dir string) error {
	parent := filepath.Dir(dir)
	if _, err := os.Stat(parent); err != nil {
		return fmt.Errorf("destination volume %s does not exist: %w", parent, err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, partFileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.Comma = delimiterRune(ds.Spec.Delimiter)

	if err := cw.Write(header(ds.Spec)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, 0, len(ds.Spec.Columns)+1)
	for i, row := range ds.Rows {
		record = record[:0]
		for j, cell := range row {
			text, err := formatCell(ds.Spec, j, cell)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			record = append(record, text)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Sync()
}

func header(spec domain.TableSpec) []string {
	cols := make([]string, 0, len(spec.Columns)+1)
	if spec.IDColumn {
		cols = append(cols, "id")
	}
	for _, c := range spec.Columns {
		cols = append(cols, c.Name)
	}
	return cols
}

// formatCell renders one value; cellIdx counts the auto id column when the
// spec has one. Nulls become empty fields.
func formatCell(spec domain.TableSpec, cellIdx int, cell interface{}) (string, error) {
	if cell == nil {
		return "", nil
	}

	switch v := cell.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		return timeutil.FormatTimestamp(v), nil
	case decimal.Decimal:
		scale := 2
		colIdx := cellIdx
		if spec.IDColumn {
			colIdx--
		}
		if colIdx >= 0 && colIdx < len(spec.Columns) && spec.Columns[colIdx].Scale > 0 {
			scale = spec.Columns[colIdx].Scale
		}
		return v.StringFixed(int32(scale)), nil
	default:
		return "", fmt.Errorf("cell %d: unsupported value type %T", cellIdx, cell)
	}
}

func delimiterRune(delimiter string) rune {
	if delimiter == "" {
		return ','
	}
	return []rune(delimiter)[0]
}
