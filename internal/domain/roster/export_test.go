package roster

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	data, err := ExportXLSX(Defaults())
	if err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Roster")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want header + 5 patients", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][1] != "MedKey ID" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "Rojan Upreti" || rows[1][2] != "pending" {
		t.Errorf("unexpected first data row: %v", rows[1])
	}
}

func TestExportXLSX_Empty(t *testing.T) {
	data, err := ExportXLSX(nil)
	if err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Roster")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}
