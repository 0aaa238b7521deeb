package space_summary_service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/init-pkg/space-summary/domain/app"
	"github.com/init-pkg/space-summary/internal/app/space-summary/decoder"
	"github.com/init-pkg/space-summary/internal/app/space-summary/store"
)

type SpaceSummaryService struct {
	decoder  decoder.Decoder
	store    *store.SummaryStore
	cache    AnalysisCache
	notifier app.SummaryNotifier
	log      *slog.Logger
}

var _ app.SpaceSummaryService = &SpaceSummaryService{}

func New(
	dec decoder.Decoder,
	summaryStore *store.SummaryStore,
	cache AnalysisCache,
	notifier app.SummaryNotifier,
	log *slog.Logger,
) *SpaceSummaryService {
	return &SpaceSummaryService{dec, summaryStore, cache, notifier, log}
}

// Analyze runs the full pipeline over file: unheaded decode, header location, headed
// re-decode, role inference and aggregation.
func Analyze(dec decoder.Decoder, file []byte) (*Analysis, error) {
	raw, err := dec.Decode(file, decoder.NoHeader)
	if err != nil {
		return nil, fmt.Errorf("scan rows: %w", err)
	}

	headerRow, err := LocateHeader(raw.Rows)
	if err != nil {
		return nil, err
	}

	sheet, err := dec.Decode(file, headerRow)
	if err != nil {
		return nil, fmt.Errorf("decode with header row %d: %w", headerRow, err)
	}

	schema, err := InferSchema(sheet)
	if err != nil {
		return nil, err
	}

	agg, err := Aggregate(schema)
	if err != nil {
		return nil, err
	}

	return &Analysis{HeaderRow: headerRow, Aggregation: agg}, nil
}

// Upload analyzes file and, only if that fully succeeds, replaces the stored summary.
func (this *SpaceSummaryService) Upload(ctx context.Context, filename string, file []byte) (*app.UploadResult, error) {
	uploadID := uuid.NewString()
	log := this.log.With("upload_id", uploadID, "filename", filename)
	log.Info("space upload started", "bytes", len(file))

	key := cacheKey(file)
	analysis, cached := this.cache.Get(key)
	if !cached {
		var err error
		analysis, err = Analyze(this.decoder, file)
		if err != nil {
			log.Warn("space upload rejected", "error", err)
			return nil, err
		}
		this.cache.Set(key, analysis)
	}

	agg := analysis.Aggregation
	snap := store.Snapshot{
		UploadID:    uploadID,
		Filename:    filename,
		Records:     agg.Records,
		AreaColumn:  agg.AreaColumn,
		UsageColumn: agg.UsageColumn,
		RowCount:    agg.RowCount,
		UpdatedAt:   time.Now(),
	}
	this.store.Replace(snap)

	log.Info("space summary replaced",
		"cached", cached,
		"header_row", analysis.HeaderRow,
		"area_column", agg.AreaColumn,
		"usage_column", agg.UsageColumn,
		"row_count", agg.RowCount,
		"rows_dropped", agg.RowsDropped,
		"categories", len(agg.Records))

	if this.notifier != nil {
		event := app.SummaryUpdatedEvent{
			UploadID:    snap.UploadID,
			Filename:    snap.Filename,
			Summary:     slices.Clone(snap.Records),
			AreaColumn:  snap.AreaColumn,
			UsageColumn: snap.UsageColumn,
			RowCount:    snap.RowCount,
			UpdatedAt:   snap.UpdatedAt,
		}
		if err := this.notifier.SummaryUpdated(ctx, event); err != nil {
			log.Error("failed to publish summary update", "error", err)
		}
	}

	return &app.UploadResult{
		UploadID:    uploadID,
		Filename:    filename,
		Summary:     slices.Clone(agg.Records),
		AreaColumn:  agg.AreaColumn,
		UsageColumn: agg.UsageColumn,
		HeaderRow:   analysis.HeaderRow,
		RowCount:    agg.RowCount,
		RowsDropped: agg.RowsDropped,
		Cached:      cached,
	}, nil
}

func (this *SpaceSummaryService) Summary(ctx context.Context) []app.SummaryRecord {
	return this.store.Read()
}
