package app

import (
	"context"
	"time"
)

// SummaryRecord is one usage category with its total floor area.
type SummaryRecord struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type UploadResult struct {
	UploadID    string          `json:"upload_id"`
	Filename    string          `json:"filename"`
	Summary     []SummaryRecord `json:"summary"`
	AreaColumn  string          `json:"area_column"`
	UsageColumn string          `json:"usage_column"`
	HeaderRow   int             `json:"header_row"`
	RowCount    int             `json:"row_count"`
	RowsDropped int             `json:"rows_dropped"`
	Cached      bool            `json:"cached"`
}

// SummaryUpdatedEvent is emitted after a new summary replaced the stored one.
type SummaryUpdatedEvent struct {
	UploadID    string          `json:"upload_id"`
	Filename    string          `json:"filename"`
	Summary     []SummaryRecord `json:"summary"`
	AreaColumn  string          `json:"area_column"`
	UsageColumn string          `json:"usage_column"`
	RowCount    int             `json:"row_count"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type SpaceSummaryService interface {
	Upload(ctx context.Context, filename string, file []byte) (*UploadResult, error)
	Summary(ctx context.Context) []SummaryRecord
}

type SummaryNotifier interface {
	SummaryUpdated(ctx context.Context, event SummaryUpdatedEvent) error
}
