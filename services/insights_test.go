package services

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fatih/color"
)

func TestGenerate(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	report := svc.Generate(sampleTable())

	if report.Summary.TotalMissions != 10 {
		t.Errorf("TotalMissions: got %d, want 10", report.Summary.TotalMissions)
	}
	if len(report.TopCompanies) != 4 {
		t.Errorf("TopCompanies: got %d, want 4", len(report.TopCompanies))
	}
	if report.MostUsedRocket != "Juno I" {
		t.Errorf("MostUsedRocket: got %q", report.MostUsedRocket)
	}
	if report.UndatedRows != 1 {
		t.Errorf("UndatedRows: got %d, want 1", report.UndatedRows)
	}
	if len(report.Yearly) != 3 {
		t.Errorf("Yearly: got %d entries, want 3", len(report.Yearly))
	}
}

func TestGenerateEmptyTable(t *testing.T) {
	report := NewInsightService(newTestLogger()).Generate(tableOf())
	if report.Summary.TotalMissions != 0 || report.MostUsedRocket != "" {
		t.Errorf("empty report: got %+v", report)
	}
	if len(report.TopCompanies) != 0 || len(report.Yearly) != 0 {
		t.Errorf("empty report should have no rows: got %+v", report)
	}
}

func TestPrint(t *testing.T) {
	color.NoColor = true
	svc := NewInsightService(newTestLogger())

	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(sampleTable()))
	out := buf.String()

	for _, want := range []string{
		"SPACE MISSION INSIGHTS",
		"Top Companies by Mission Count",
		"AMBA",
		"Juno I",
		"Prelaunch Failure",
		"Scrubbed",
		"1958",
		"Rows without date",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestPrintEmptyReport(t *testing.T) {
	color.NoColor = true
	svc := NewInsightService(newTestLogger())

	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(tableOf()))
	if !strings.Contains(buf.String(), "No missions found") {
		t.Errorf("expected empty-state message, got:\n%s", buf.String())
	}
}

func TestOrderedStatuses(t *testing.T) {
	got := OrderedStatuses(map[string]int{"Success": 1, "Scrubbed": 1, "Aborted": 2, "Failure": 0})
	want := []string{"Success", "Failure", "Partial Failure", "Prelaunch Failure", "Aborted", "Scrubbed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("a very long company name", 10); got != "a very ..." {
		t.Errorf("got %q", got)
	}
	got := truncate("Корпорация Роскосмос", 10)
	if got != "Корпора..." || !utf8.ValidString(got) {
		t.Errorf("multi-byte: got %q, want %q", got, "Корпора...")
	}
}
