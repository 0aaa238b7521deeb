package space_summary_service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/init-pkg/space-summary/domain/app"
	"github.com/init-pkg/space-summary/internal/app/space-summary/decoder"
	"github.com/init-pkg/space-summary/internal/app/space-summary/store"
	"github.com/xuri/excelize/v2"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []app.SummaryUpdatedEvent
	err    error
}

func (n *recordingNotifier) SummaryUpdated(ctx context.Context, event app.SummaryUpdatedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

type countingDecoder struct {
	decoder.Decoder
	calls int
}

func (d *countingDecoder) Decode(file []byte, headerRow int) (*decoder.Sheet, error) {
	d.calls++
	return d.Decoder.Decode(file, headerRow)
}

func workbook(t *testing.T, rows [][]any, merges ...[2]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set %s: %v", cell, err)
			}
		}
	}

	for _, m := range merges {
		if err := f.MergeCell(sheet, m[0], m[1]); err != nil {
			t.Fatalf("merge %v: %v", m, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func newTestService(notifier app.SummaryNotifier) (*SpaceSummaryService, *store.SummaryStore, *countingDecoder) {
	dec := &countingDecoder{Decoder: decoder.New(decoder.Options{})}
	st := store.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(dec, st, NewMemAnalysisCache(time.Minute, 0), notifier, log), st, dec
}

func TestUploadCleanInput(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, st, _ := newTestService(notifier)

	file := workbook(t, [][]any{
		{"Room", "Usage", "Area"},
		{"Room A", "Office", 100},
		{"Room B", "Office", 50},
		{"Room C", "Lab", 200},
	})

	res, err := svc.Upload(context.Background(), "rooms.xlsx", file)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	want := []app.SummaryRecord{{Name: "Lab", Value: 200}, {Name: "Office", Value: 150}}
	if !reflect.DeepEqual(res.Summary, want) {
		t.Errorf("summary = %v, want %v", res.Summary, want)
	}
	if res.AreaColumn != "area" || res.UsageColumn != "usage" || res.RowCount != 3 || res.HeaderRow != 0 {
		t.Errorf("unexpected metadata: %+v", res)
	}
	if res.UploadID == "" || res.Filename != "rooms.xlsx" {
		t.Errorf("unexpected identity: id=%q filename=%q", res.UploadID, res.Filename)
	}
	if got := svc.Summary(context.Background()); !reflect.DeepEqual(got, want) {
		t.Errorf("Summary() = %v, want %v", got, want)
	}
	if snap, _ := st.Snapshot(); snap.UploadID != res.UploadID {
		t.Errorf("store upload id = %q, want %q", snap.UploadID, res.UploadID)
	}

	if len(notifier.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(notifier.events))
	}
	if ev := notifier.events[0]; ev.UploadID != res.UploadID || !reflect.DeepEqual(ev.Summary, want) {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestUploadNoisyHeader(t *testing.T) {
	svc, _, _ := newTestService(nil)

	file := workbook(t, [][]any{
		{},
		{},
		{nil, "Room Name", "Sq Ft", "Dept"},
		{nil, "101", 250, "Finance"},
		{nil, "102", 125, "Finance"},
		{},
		{nil, "201", 300, "Research"},
	})

	res, err := svc.Upload(context.Background(), "noisy.xlsx", file)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if res.HeaderRow != 2 {
		t.Errorf("header row = %d, want 2", res.HeaderRow)
	}
	if res.AreaColumn != "sq ft" || res.UsageColumn != "room name" {
		t.Errorf("columns = (%q, %q), want (sq ft, room name)", res.AreaColumn, res.UsageColumn)
	}

	want := []app.SummaryRecord{{Name: "201", Value: 300}, {Name: "101", Value: 250}, {Name: "102", Value: 125}}
	if !reflect.DeepEqual(res.Summary, want) {
		t.Errorf("summary = %v, want %v", res.Summary, want)
	}
}

func TestAnalyzeMergedTitleAboveHeader(t *testing.T) {
	file := workbook(t, [][]any{
		{"Building 7 space inventory"},
		{},
		{"Room", "Usage", "Area"},
		{"Room A", "Office", 100},
		{"Room B", "Lab", 200},
		{"Room C", nil, 50},
	}, [2]string{"A1", "C1"})

	tests := []struct {
		name       string
		fillMerged bool
		want       []app.SummaryRecord
	}{
		{"merged cells left blank", false, []app.SummaryRecord{{Name: "Lab", Value: 200}, {Name: "Office", Value: 100}}},
		{"merged data cells filled", true, []app.SummaryRecord{{Name: "Lab", Value: 200}, {Name: "Office", Value: 100}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := Analyze(decoder.New(decoder.Options{FillMergedCells: tt.fillMerged}), file)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if analysis.HeaderRow != 2 {
				t.Errorf("header row = %d, want 2", analysis.HeaderRow)
			}
			agg := analysis.Aggregation
			if agg.AreaColumn != "area" || agg.UsageColumn != "usage" {
				t.Errorf("columns = (%q, %q), want (area, usage)", agg.AreaColumn, agg.UsageColumn)
			}
			if !reflect.DeepEqual(agg.Records, tt.want) {
				t.Errorf("summary = %v, want %v", agg.Records, tt.want)
			}
		})
	}
}

func TestAnalyzeFilledMergedUsageCells(t *testing.T) {
	file := workbook(t, [][]any{
		{"Building 7 space inventory"},
		{"Room", "Usage", "Area"},
		{"Room A", "Office", 100},
		{"Room B", nil, 50},
		{"Room C", "Lab", 20},
	}, [2]string{"A1", "C1"}, [2]string{"B3", "B4"})

	analysis, err := Analyze(decoder.New(decoder.Options{FillMergedCells: true}), file)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	want := []app.SummaryRecord{{Name: "Office", Value: 150}, {Name: "Lab", Value: 20}}
	if !reflect.DeepEqual(analysis.Aggregation.Records, want) {
		t.Errorf("summary = %v, want %v", analysis.Aggregation.Records, want)
	}
}

func TestUploadNoUsageColumn(t *testing.T) {
	svc, _, _ := newTestService(nil)

	file := workbook(t, [][]any{
		{"Room", "Area"},
		{"A", 10},
	})

	_, err := svc.Upload(context.Background(), "rooms.xlsx", file)

	var cnd *app.ColumnsNotDetectedError
	if !errors.As(err, &cnd) {
		t.Fatalf("expected ColumnsNotDetectedError, got %v", err)
	}
	if want := []string{"room", "area"}; !reflect.DeepEqual(cnd.Available, want) {
		t.Errorf("available = %q, want %q", cnd.Available, want)
	}
}

func TestUploadInvalidAreasExcluded(t *testing.T) {
	svc, _, _ := newTestService(nil)

	file := workbook(t, [][]any{
		{"Room", "Type", "Area"},
		{"A", "Office", 120},
		{"B", "Office", -10},
		{"C", "Lab", "N/A"},
		{"D", "Lab", 80},
	})

	res, err := svc.Upload(context.Background(), "rooms.xlsx", file)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	want := []app.SummaryRecord{{Name: "Office", Value: 120}, {Name: "Lab", Value: 80}}
	if !reflect.DeepEqual(res.Summary, want) {
		t.Errorf("summary = %v, want %v", res.Summary, want)
	}
	if res.RowCount != 2 || res.RowsDropped != 2 {
		t.Errorf("row count = %d dropped = %d, want 2 and 2", res.RowCount, res.RowsDropped)
	}
}

func TestFailedUploadKeepsPreviousSummary(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _, _ := newTestService(notifier)

	good := workbook(t, [][]any{
		{"Use", "Area"},
		{"Office", 10},
	})
	if _, err := svc.Upload(context.Background(), "good.xlsx", good); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	failures := map[string][]byte{
		"garbage":   []byte{0x00, 0x01, 0xFE},
		"empty":     workbook(t, [][]any{}),
		"no roles":  workbook(t, [][]any{{"Foo", "Bar"}, {"x", "y"}}),
		"no values": workbook(t, [][]any{{"Use", "Area"}, {"Office", 0}}),
	}
	for name, file := range failures {
		if _, err := svc.Upload(context.Background(), name, file); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	want := []app.SummaryRecord{{Name: "Office", Value: 10}}
	if got := svc.Summary(context.Background()); !reflect.DeepEqual(got, want) {
		t.Errorf("Summary() = %v, want %v", got, want)
	}
	if len(notifier.events) != 1 {
		t.Errorf("expected 1 event, got %d", len(notifier.events))
	}
}

func TestUploadErrorKinds(t *testing.T) {
	svc, _, _ := newTestService(nil)

	tests := []struct {
		name string
		file []byte
		want error
	}{
		{"not a spreadsheet", []byte{0x00, 0x01, 0xFE}, app.ErrDecode},
		{"blank csv", []byte(" , ,\n,,\n"), app.ErrEmptyInput},
		{"no positive areas", []byte("use,area\nOffice,-5\n"), app.ErrNoValidRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.name, tt.file)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUploadUsesAnalysisCache(t *testing.T) {
	svc, st, dec := newTestService(nil)

	file := []byte("Use,Area\nOffice,10\nLab,20\n")

	first, err := svc.Upload(context.Background(), "a.csv", file)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if first.Cached {
		t.Error("first upload should not be cached")
	}
	calls := dec.calls

	second, err := svc.Upload(context.Background(), "b.csv", file)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !second.Cached {
		t.Error("second upload of identical bytes should be cached")
	}
	if dec.calls != calls {
		t.Errorf("decoder called %d more times on cache hit", dec.calls-calls)
	}
	if second.UploadID == first.UploadID {
		t.Error("expected a fresh upload id on cache hit")
	}
	if snap, _ := st.Snapshot(); snap.Filename != "b.csv" {
		t.Errorf("store filename = %q, want b.csv", snap.Filename)
	}

	second.Summary[0].Name = "mutated"
	third, _ := svc.Upload(context.Background(), "c.csv", file)
	if third.Summary[0].Name != "Lab" {
		t.Errorf("cached summary was mutated through a result: %v", third.Summary)
	}
}

func TestUploadNotifierErrorIsNotFatal(t *testing.T) {
	svc, _, _ := newTestService(&recordingNotifier{err: errors.New("broker down")})

	if _, err := svc.Upload(context.Background(), "a.csv", []byte("Use,Area\nOffice,10\n")); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	want := []app.SummaryRecord{{Name: "Office", Value: 10}}
	if got := svc.Summary(context.Background()); !reflect.DeepEqual(got, want) {
		t.Errorf("Summary() = %v, want %v", got, want)
	}
}
