package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

var rooms = [][]any{
	{"101", 250, "Finance", "corner office"},
	{"102", 125, "Finance", nil},
	{"103", 180.5, "Human Resources", nil},
	{"201", 300, "Research", "wet lab"},
	{"202", "N/A", "Research", "under renovation"},
	{"203", 95, "Storage", nil},
	{"204", 1200, "Research", "clean room"},
	{"301", 60, "", "unassigned"},
}

func main() {
	out := filepath.Join("resources", "rooms.xlsx")
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	if err := writeRooms(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("Seed workbook written to", out)
}

// writeRooms lays the table out like a typical facilities export: a merged title, a
// blank spacer row, then the header in row 3 starting at column B.
func writeRooms(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "B1", "Building 7 space inventory"); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "B1", "E1"); err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "B3", &[]any{"Room Name", "Sq Ft", "Dept", "Notes"}); err != nil {
		return err
	}
	for i, room := range rooms {
		cell, err := excelize.CoordinatesToCellName(2, 4+i)
		if err != nil {
			return err
		}
		row := room
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}
