package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ppiankov/sanket/internal/model"
)

func strp(s string) *string { return &s }

func sampleRecords() []model.AccidentRecord {
	return []model.AccidentRecord{
		{
			Date:          strp("16-05-2015"),
			Mine:          strp("Ledo OCP"),
			Time:          strp("10:30 AM"),
			Owner:         strp("Coal India Ltd."),
			District:      strp("Tinsukia"),
			State:         strp("Assam"),
			PersonsKilled: strp("2"),
			Description:   strp("While drilling, a mass of coal collapsed."),
			Precaution:    strp("Had the overhangs been dressed, the accident could have been averted."),
		},
		{
			// Partially parsed record: several fields missing.
			Date:  strp("03/11/15"),
			Mine:  strp("Jharia Colliery"),
			State: strp("Jharkhand"),
		},
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	records := sampleRecords()

	if err := WriteCSV(path, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	loaded, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !reflect.DeepEqual(records, loaded) {
		t.Errorf("round trip mismatch:\n  wrote %+v\n  read  %+v", records, loaded)
	}
}

func TestWriteCSV_BOMAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("expected UTF-8 BOM prefix")
	}
	header := strings.SplitN(string(data[3:]), "\n", 2)[0]
	want := "Date,Mine,Time,Owner,District,State,Persons_Killed,Description,Precaution"
	if strings.TrimRight(header, "\r") != want {
		t.Errorf("header = %q, want %q", header, want)
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected 0 records, got %d", len(records))
	}
}

func TestReadCSV_RejectsWrongHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "A,B,C,D,E,F,G,H,I\n1,2,3,4,5,6,7,8,9\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := ReadCSV(path); err == nil {
		t.Error("expected error for wrong header, got nil")
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	records := sampleRecords()

	if err := WriteJSON(path, records); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	loaded, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(records, loaded) {
		t.Errorf("round trip mismatch:\n  wrote %+v\n  read  %+v", records, loaded)
	}
}

func TestWriteJSON_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	if err := WriteJSON(path, sampleRecords()[:1]); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, "    \"Date\": \"16-05-2015\"") {
		t.Error("expected 4-space indentation with Date field")
	}
	// Field order follows the CSV header.
	if strings.Index(text, "\"Date\"") > strings.Index(text, "\"Mine\"") {
		t.Error("expected Date before Mine in serialized output")
	}
	if strings.Index(text, "\"Description\"") > strings.Index(text, "\"Precaution\"") {
		t.Error("expected Description before Precaution in serialized output")
	}
}

func TestWriteJSON_NullFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	if err := WriteJSON(path, []model.AccidentRecord{{}}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "\"Date\": null") {
		t.Error("expected missing fields serialized as null")
	}
}
