package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/init-pkg/space-summary/domain/app"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rooms.csv")
	csv := "Building 7\n\nRoom,Usage,Area\nA,Office,100\nB,Office,50\nC,Lab,200\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSummarizeJSON(t *testing.T) {
	out, err := runCmd(t, "summarize", writeInput(t))
	if err != nil {
		t.Fatalf("summarize failed: %v\n%s", err, out)
	}

	var got summaryOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if got.HeaderRow != 1 || got.AreaColumn != "area" || got.UsageColumn != "usage" || got.RowCount != 3 {
		t.Errorf("unexpected output: %+v", got)
	}
	want := []app.SummaryRecord{{Name: "Lab", Value: 200}, {Name: "Office", Value: 150}}
	if len(got.Summary) != 2 || got.Summary[0] != want[0] || got.Summary[1] != want[1] {
		t.Errorf("summary = %v, want %v", got.Summary, want)
	}
}

func TestSummarizeYAML(t *testing.T) {
	out, err := runCmd(t, "summarize", "--format", "yaml", writeInput(t))
	if err != nil {
		t.Fatalf("summarize failed: %v\n%s", err, out)
	}
	for _, want := range []string{"area_column: area", "usage_column: usage", "name: Lab", "value: 200"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummarizeErrors(t *testing.T) {
	if _, err := runCmd(t, "summarize", "--format", "xml", writeInput(t)); err == nil {
		t.Error("expected invalid format error")
	}
	if _, err := runCmd(t, "summarize", filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected missing file error")
	}
	if _, err := runCmd(t, "summarize"); err == nil {
		t.Error("expected argument error")
	}
}

func TestVersion(t *testing.T) {
	out, err := runCmd(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q", out)
	}
}
