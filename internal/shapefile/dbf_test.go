package shapefile

import (
	"errors"
	"testing"
)

func TestDBFRoundTrip(t *testing.T) {
	fields := []FieldDesc{
		{Name: "borough", Type: FieldCharacter, Length: 12},
		{Name: "crimes", Type: FieldNumeric, Length: 6},
		{Name: "density", Type: FieldNumeric, Length: 9, Decimals: 2},
		{Name: "inner", Type: FieldLogical, Length: 1},
	}
	rows := []map[string]interface{}{
		{"borough": "Camden", "crimes": int64(120), "density": 43.25, "inner": true},
		{"borough": "Bromley", "crimes": int64(0), "density": 0.75, "inner": false},
		{"borough": "Harrow", "crimes": nil, "density": nil, "inner": nil},
	}

	data, err := encodeDBF(fields, rows)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	gotFields, gotRows, err := parseDBF("test.dbf", data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(gotFields) != len(fields) {
		t.Fatalf("field count: got %d, expected %d", len(gotFields), len(fields))
	}
	for i, want := range fields {
		if gotFields[i] != want {
			t.Errorf("field %d: got %+v, expected %+v", i, gotFields[i], want)
		}
	}

	if len(gotRows) != len(rows) {
		t.Fatalf("row count: got %d, expected %d", len(gotRows), len(rows))
	}
	for i, row := range rows {
		for k, want := range row {
			got := gotRows[i][k]
			if got != want {
				t.Errorf("row %d %q: got %v (%T), expected %v (%T)", i, k, got, got, want, want)
			}
		}
	}
}

func TestDBFNilBecomesBlank(t *testing.T) {
	fields := []FieldDesc{{Name: "n", Type: FieldNumeric, Length: 6}}
	rows := []map[string]interface{}{{"n": nil}}

	data, err := encodeDBF(fields, rows)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, gotRows, err := parseDBF("test.dbf", data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if gotRows[0]["n"] != nil {
		t.Errorf("expected nil for blank numeric, got %v", gotRows[0]["n"])
	}
}

func TestDBFValueTooWide(t *testing.T) {
	fields := []FieldDesc{{Name: "n", Type: FieldNumeric, Length: 3}}
	rows := []map[string]interface{}{{"n": int64(123456)}}

	if _, err := encodeDBF(fields, rows); err == nil {
		t.Error("expected error for value wider than field")
	}
}

func TestDBFLongStringTruncated(t *testing.T) {
	fields := []FieldDesc{{Name: "s", Type: FieldCharacter, Length: 4}}
	rows := []map[string]interface{}{{"s": "Kensington"}}

	data, err := encodeDBF(fields, rows)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, gotRows, err := parseDBF("test.dbf", data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if gotRows[0]["s"] != "Kens" {
		t.Errorf("got %q, expected truncation to field width", gotRows[0]["s"])
	}
}

func TestDBFTruncatedHeader(t *testing.T) {
	_, _, err := parseDBF("short.dbf", []byte{0x03, 0x01})
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestDBFDeletedRecordBecomesEmptyRow(t *testing.T) {
	fields := []FieldDesc{{Name: "id", Type: FieldNumeric, Length: 4}}
	rows := []map[string]interface{}{{"id": int64(1)}, {"id": int64(2)}}

	data, err := encodeDBF(fields, rows)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Flag the first record as deleted in place.
	headerSize := 32 + 32 + 1
	data[headerSize] = '*'

	_, gotRows, err := parseDBF("test.dbf", data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// A deleted record still counts toward the table length so rows
	// stay aligned with shapes; its values are gone.
	if len(gotRows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(gotRows))
	}
	if len(gotRows[0]) != 0 {
		t.Errorf("deleted row kept values: %v", gotRows[0])
	}
	if gotRows[1]["id"] != int64(2) {
		t.Errorf("surviving row: got %v", gotRows[1]["id"])
	}
}
