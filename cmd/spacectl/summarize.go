package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/init-pkg/space-summary/domain/app"
	"github.com/init-pkg/space-summary/internal/app/space-summary/decoder"
	space_summary_service "github.com/init-pkg/space-summary/internal/app/space-summary/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type summaryOutput struct {
	File        string              `json:"file" yaml:"file"`
	HeaderRow   int                 `json:"header_row" yaml:"header_row"`
	AreaColumn  string              `json:"area_column" yaml:"area_column"`
	UsageColumn string              `json:"usage_column" yaml:"usage_column"`
	RowCount    int                 `json:"row_count" yaml:"row_count"`
	RowsDropped int                 `json:"rows_dropped" yaml:"rows_dropped"`
	Summary     []app.SummaryRecord `json:"summary" yaml:"summary"`
}

func newSummarizeCmd() *cobra.Command {
	var (
		format     string
		fillMerged bool
	)

	cmd := &cobra.Command{
		Use:   "summarize [file.xlsx|file.csv]",
		Short: "Detect the area and usage columns and print the grouped summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			analysis, err := space_summary_service.Analyze(decoder.New(decoder.Options{FillMergedCells: fillMerged}), file)
			if err != nil {
				return err
			}

			agg := analysis.Aggregation
			return writeSummary(cmd.OutOrStdout(), format, summaryOutput{
				File:        filepath.Base(args[0]),
				HeaderRow:   analysis.HeaderRow,
				AreaColumn:  agg.AreaColumn,
				UsageColumn: agg.UsageColumn,
				RowCount:    agg.RowCount,
				RowsDropped: agg.RowsDropped,
				Summary:     agg.Records,
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().BoolVar(&fillMerged, "fill-merged", false, "Copy merged cell values into the data cells of each range")

	return cmd
}

func writeSummary(w io.Writer, format string, out summaryOutput) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	default:
		return fmt.Errorf("invalid format: %s (must be json or yaml)", format)
	}
}
