package entity

import (
	"encoding/json"
	"testing"
)

func TestRecordKeepsFieldOrder(t *testing.T) {
	rec := NewRecord([]string{"Zulu", "Alpha", "Mike"})
	rec.Set("Alpha", "2")
	rec.Set("Mike", "3")
	rec.Set("Zulu", "1")

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"Zulu":"1","Alpha":"2","Mike":"3"}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
}

func TestRecordIgnoresUnknownKeys(t *testing.T) {
	rec := NewRecord([]string{"A"})
	rec.Set("B", "x")
	if got := rec.Get("B"); got != "" {
		t.Errorf("Get(B) = %q, want empty", got)
	}
	if len(rec.Keys()) != 1 {
		t.Errorf("Keys = %v", rec.Keys())
	}
}

func TestRecordRow(t *testing.T) {
	rec := NewRecord([]string{"A", "B", "C"})
	rec.Set("A", "1")
	rec.Set("C", "3")

	row := rec.Row([]string{"C", "A", "missing"})
	if row[0] != "3" || row[1] != "1" || row[2] != "" {
		t.Errorf("Row = %v", row)
	}
}

func TestRecordEveryKeyStartsEmpty(t *testing.T) {
	rec := NewRecord([]string{"A", "B"})
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"A":"","B":""}` {
		t.Errorf("marshal = %s", data)
	}
}
