package scraper

import "testing"

func TestRowsFromRecords(t *testing.T) {
	header := []string{" Site ID ", "Task", "", "Task", "Progress"}
	records := [][]string{
		{"101", " Foundation ", "ignored", "dup", "50"},
		{"", "  ", "x", "", ""},
		{"102", "Roof"},
	}
	rows := rowsFromRecords(header, records)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2: %v", len(rows), rows)
	}
	if rows[0]["Site ID"] != "101" || rows[0]["Task"] != "Foundation" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if _, ok := rows[0][""]; ok {
		t.Error("blank header column should be dropped")
	}
	if v, ok := rows[1]["Progress"]; !ok || v != nil {
		t.Errorf("short record should pad with nil, got %v (present=%v)", v, ok)
	}
}

func TestRowsFromValuesKeepsNumbers(t *testing.T) {
	values := [][]any{
		{"Site ID", "Progress", "Done"},
		{float64(101), 75.5, true},
		{nil, "", nil},
	}
	rows := rowsFromValues(values)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0]["Progress"] != 75.5 || rows[0]["Site ID"] != float64(101) {
		t.Errorf("numbers not preserved: %v", rows[0])
	}
	if rows[0]["Done"] != "TRUE" {
		t.Errorf("Done = %v", rows[0]["Done"])
	}
	if got := rowsFromValues(nil); len(got) != 0 {
		t.Errorf("nil values gave %v", got)
	}
}

func TestRowsCarryColumnRefs(t *testing.T) {
	header := make([]string, 26)
	header[0] = "Site ID"
	rec := make([]string, 26)
	rec[0] = "101"
	rec[24] = "Released"
	rows := rowsFromRecords(header, [][]string{rec, {"", "x"}})
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 (positional cells alone do not keep a row)", len(rows))
	}
	if rows[0]["$Y"] != "Released" || rows[0]["$A"] != "101" {
		t.Errorf("row = %v", rows[0])
	}
	if _, ok := rows[0]["$B"]; ok {
		t.Error("blank cells should not get a column ref")
	}
}
