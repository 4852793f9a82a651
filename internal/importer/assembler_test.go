package importer

import (
	"strings"
	"testing"
	"time"
)

func TestAssembleRecord(t *testing.T) {
	headers := []string{"Order ID", "Order Date", "Status", "Qty", "Order Value", "Pincode", "Product Name", "Warehouse Remark"}
	mapping := MapHeaders(headers)

	row := []string{"ORD-1", "45292", "Delivered", "3", "₹1,000.50", "110001.0", "Blue Mug", "ignore me"}
	rec := AssembleRecord(mapping, row)

	if rec.OrderID == nil || *rec.OrderID != "ORD-1" {
		t.Errorf("OrderID = %v, want ORD-1", rec.OrderID)
	}
	wantDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if rec.OrderDate == nil || !rec.OrderDate.Equal(wantDate) {
		t.Errorf("OrderDate = %v, want %v", rec.OrderDate, wantDate)
	}
	if rec.OrderStatus == nil || *rec.OrderStatus != "Delivered" {
		t.Errorf("OrderStatus = %v, want Delivered", rec.OrderStatus)
	}
	if rec.Quantity != 3 {
		t.Errorf("Quantity = %d, want 3", rec.Quantity)
	}
	if rec.OrderValue == nil || *rec.OrderValue != 1000.5 {
		t.Errorf("OrderValue = %v, want 1000.5", rec.OrderValue)
	}
	if rec.Pincode == nil || *rec.Pincode != "110001" {
		t.Errorf("Pincode = %v, want 110001 (float suffix stripped)", rec.Pincode)
	}
	if rec.ProductName == nil || *rec.ProductName != "Blue Mug" {
		t.Errorf("ProductName = %v, want Blue Mug", rec.ProductName)
	}
}

func TestAssembleRecordDefaults(t *testing.T) {
	headers := []string{"Order ID", "Qty", "Order Value"}
	mapping := MapHeaders(headers)

	// Unparsable quantity keeps the default of 1; unparsable value becomes nil.
	rec := AssembleRecord(mapping, []string{"ORD-2", "many", "free"})

	if rec.Quantity != 1 {
		t.Errorf("Quantity = %d, want default 1", rec.Quantity)
	}
	if rec.OrderValue != nil {
		t.Errorf("OrderValue = %v, want nil", *rec.OrderValue)
	}
	if rec.OrderDate != nil {
		t.Errorf("OrderDate = %v, want nil for missing column", rec.OrderDate)
	}
}

func TestAssembleRecordRaggedRow(t *testing.T) {
	headers := []string{"Order ID", "Order Date", "Status"}
	mapping := MapHeaders(headers)

	// Row shorter than the header must not panic.
	rec := AssembleRecord(mapping, []string{"ORD-3"})

	if rec.OrderID == nil || *rec.OrderID != "ORD-3" {
		t.Errorf("OrderID = %v, want ORD-3", rec.OrderID)
	}
	if rec.OrderDate != nil || rec.OrderStatus != nil {
		t.Errorf("missing cells should stay nil, got date=%v status=%v", rec.OrderDate, rec.OrderStatus)
	}
}

func TestAssembleAllNeverRejects(t *testing.T) {
	csv := "Order ID,Order Date,Status\n" +
		"ORD-1,2024-01-01,Delivered\n" +
		"ORD-2,,RTO\n" +
		",,\n"

	headers, rows, err := ReadTable(strings.NewReader(csv), "orders.csv")
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}

	records := AssembleAll(headers, rows)
	if len(records) != 3 {
		t.Fatalf("AssembleAll returned %d records, want 3 (assembly is total)", len(records))
	}
	if records[1].OrderDate != nil {
		t.Errorf("blank order date should assemble as nil")
	}
}

func TestReadTableRaggedCSV(t *testing.T) {
	csv := "Order ID,Status,Pincode\nORD-1,Delivered\nORD-2,RTO,110001,extra\n"

	headers, rows, err := ReadTable(strings.NewReader(csv), "export.csv")
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(headers) != 3 {
		t.Fatalf("headers = %d, want 3", len(headers))
	}
	if len(rows) != 2 || len(rows[0]) != 2 || len(rows[1]) != 4 {
		t.Fatalf("ragged rows not preserved: %v", rows)
	}
}
