// Package workshop declares the six financial datasets the pipeline demo
// notebooks ingest. Everything here is configuration: column rules, row
// counts, null rates and delimiters, mirroring the tables the workshop
// expects byte for byte in shape.
package workshop

import (
	"github.com/ghanse/dlt-workshop/internal/domain"
)

// Row counts per dataset.
const (
	CustomerRows     = 100
	SupplierCDCRows  = 20
	ItemRows         = 1000
	OrderRows        = 10000
	NewOrderRows     = 1000
	BacklogOrderRows = 100000
)

func Customers() domain.TableSpec {
	return domain.NewTableSpec("customers", CustomerRows).
		WithIDColumn().
		WithDelimiter("|").
		WithColumn(textColumn("customer_name", "company", 0.01)).
		WithColumn(textColumn("billing_address", "address", 0.01)).
		WithColumn(textColumn("mailing_address", "address", 0.2)).
		WithColumn(textColumn("phone_number", "phone", 0.2)).
		WithColumn(emailColumn("email", "customer_name", 0.1)).
		WithColumn(choiceColumn("payment_terms", true,
			"DUE_ON_RECEIPT", "NET_30", "NET_60", "NET_90", "NET_120")).
		WithColumn(decimalColumn("balance_limit", 1000, 100000, 0.01)).
		Build()
}

// SuppliersCDC models a feed of row-level change events rather than a
// current-state snapshot, so it carries its own id column plus the change
// type and change time.
func SuppliersCDC() domain.TableSpec {
	return domain.NewTableSpec("suppliers_cdc", SupplierCDCRows).
		WithColumn(choiceColumn("update_type", true, "INSERT", "UPDATE", "DELETE")).
		WithColumn(timestampColumn("update_date", "2024-01-01 00:00:00", "2024-12-31 11:59:59")).
		WithColumn(intColumn("id", 1, 100)).
		WithColumn(textColumn("supplier_name", "company", 0.01)).
		WithColumn(textColumn("billing_address", "address", 0.01)).
		WithColumn(textColumn("mailing_address", "address", 0.2)).
		WithColumn(textColumn("phone_number", "phone", 0.2)).
		WithColumn(emailColumn("email", "supplier_name", 0.1)).
		Build()
}

func Items() domain.TableSpec {
	return domain.NewTableSpec("items", ItemRows).
		WithIDColumn().
		WithColumn(textColumn("description", "sentence", 0.1)).
		WithColumn(decimalColumnWithStep("unit_price", 1, 500, 0.01, 0.01)).
		Build()
}

func Orders() domain.TableSpec {
	return domain.NewTableSpec("orders", OrderRows).
		WithIDColumn().
		WithColumn(timestampColumn("order_date", "2020-01-01 00:00:00", "2024-01-01 00:00:00")).
		WithColumn(textColumn("description", "sentence", 0.1)).
		WithColumn(intColumn("customer_id", 1, CustomerRows)).
		WithColumn(intColumn("item_id", 1, ItemRows)).
		WithColumn(intColumn("qty_ordered", 1, 100)).
		WithColumn(choiceColumn("business_unit", true, "retail", "wholesale")).
		Build()
}

// OrdersNew pins business_unit to a single constant value: a one-element
// choice set with cyclic assignment.
func OrdersNew() domain.TableSpec {
	return domain.Derive(Orders()).
		WithRowCount(NewOrderRows).
		WithColumn(choiceColumn("business_unit", false, "direct_to_consumer")).
		Build()
}

// OrdersBacklog reuses the orders spec with an expanded row count and an
// earlier historical order_date window. Every other column rule is inherited
// from the base untouched.
func OrdersBacklog() domain.TableSpec {
	return domain.Derive(Orders()).
		WithRowCount(BacklogOrderRows).
		WithColumn(timestampColumn("order_date", "2000-01-01 00:00:00", "2020-01-01 00:00:00")).
		Build()
}

// All returns the datasets in generation order.
func All() []domain.TableSpec {
	return []domain.TableSpec{
		Customers(),
		SuppliersCDC(),
		Items(),
		Orders(),
		OrdersNew(),
		OrdersBacklog(),
	}
}

func textColumn(name, provider string, percentNulls float64) domain.ColumnSpec {
	return domain.ColumnSpec{
		Name:         name,
		Type:         domain.ColumnTypeString,
		PercentNulls: percentNulls,
		Rule: domain.RuleSpec{
			Type:   domain.RuleText,
			Params: map[string]interface{}{"provider": provider},
		},
	}
}

func emailColumn(name, source string, percentNulls float64) domain.ColumnSpec {
	return domain.ColumnSpec{
		Name:         name,
		Type:         domain.ColumnTypeString,
		PercentNulls: percentNulls,
		Rule: domain.RuleSpec{
			Type:   domain.RuleExpr,
			Params: map[string]interface{}{"name": "email", "source": source},
		},
	}
}

func choiceColumn(name string, random bool, values ...string) domain.ColumnSpec {
	list := make([]interface{}, len(values))
	for i, v := range values {
		list[i] = v
	}
	return domain.ColumnSpec{
		Name: name,
		Type: domain.ColumnTypeString,
		Rule: domain.RuleSpec{
			Type:   domain.RuleChoice,
			Params: map[string]interface{}{"values": list, "random": random},
		},
	}
}

func intColumn(name string, min, max int64) domain.ColumnSpec {
	return domain.ColumnSpec{
		Name: name,
		Type: domain.ColumnTypeInt,
		Rule: domain.RuleSpec{
			Type:   domain.RuleRangeInt,
			Params: map[string]interface{}{"min": min, "max": max},
		},
	}
}

func decimalColumn(name string, min, max int64, percentNulls float64) domain.ColumnSpec {
	return domain.ColumnSpec{
		Name:         name,
		Type:         domain.ColumnTypeDecimal,
		PercentNulls: percentNulls,
		Precision:    10,
		Scale:        2,
		Rule: domain.RuleSpec{
			Type:   domain.RuleRangeDecimal,
			Params: map[string]interface{}{"min": min, "max": max},
		},
	}
}

func decimalColumnWithStep(name string, min, max int64, step, percentNulls float64) domain.ColumnSpec {
	return domain.ColumnSpec{
		Name:         name,
		Type:         domain.ColumnTypeDecimal,
		PercentNulls: percentNulls,
		Precision:    10,
		Scale:        2,
		Rule: domain.RuleSpec{
			Type:   domain.RuleRangeDecimal,
			Params: map[string]interface{}{"min": min, "max": max, "step": step},
		},
	}
}

func timestampColumn(name, min, max string) domain.ColumnSpec {
	return domain.ColumnSpec{
		Name: name,
		Type: domain.ColumnTypeTimestamp,
		Rule: domain.RuleSpec{
			Type:   domain.RuleRangeTimestamp,
			Params: map[string]interface{}{"min": min, "max": max},
		},
	}
}
