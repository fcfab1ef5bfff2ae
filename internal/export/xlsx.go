package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/lifelog/internal/constants"
)

type sheet struct {
	name     string
	headings []string
	rows     [][]interface{}
}

func sheets(doc Document) []sheet {
	expenses := sheet{name: "Expenses", headings: []string{"ID", "Date", "Type", "Category", "Amount", "Note"}}
	for _, e := range doc.Expenses {
		amount, _ := e.Amount.Float64()
		expenses.rows = append(expenses.rows, []interface{}{e.ID, e.Date, string(e.Type), e.Category, amount, e.Note})
	}

	moods := sheet{name: "Moods", headings: []string{"Date", "Mood", "Note"}}
	for _, m := range doc.Moods {
		moods.rows = append(moods.rows, []interface{}{m.Date, m.Mood, m.Note})
	}

	habits := sheet{name: "Habits", headings: []string{"ID", "Name", "Frequency", "Color", "Created"}}
	for _, h := range doc.Habits {
		habits.rows = append(habits.rows, []interface{}{h.ID, h.Name, h.Frequency.String(), h.Color, h.CreatedAt.Format(constants.DateFormat)})
	}

	entries := sheet{name: "Habit Entries", headings: []string{"ID", "Habit ID", "Date", "Completed"}}
	for _, e := range doc.HabitEntries {
		entries.rows = append(entries.rows, []interface{}{e.ID, e.HabitID, e.Date, e.Completed})
	}

	plans := sheet{name: "Daily Plans", headings: []string{"ID", "Date", "Start", "End", "Title", "Category", "Description"}}
	for _, p := range doc.DailyPlans {
		plans.rows = append(plans.rows, []interface{}{
			p.ID, p.Date,
			p.StartTime.Format(constants.TimeFormat), p.EndTime.Format(constants.TimeFormat),
			p.Title, p.Category, p.Description,
		})
	}

	return []sheet{expenses, moods, habits, entries, plans}
}

// WriteXLSX writes one worksheet per collection, with a header row.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets(doc) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := writeSheet(f, s); err != nil {
			return fmt.Errorf("failed to write %s sheet: %w", strings.ToLower(s.name), err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet) error {
	for col, h := range s.headings {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(s.name, cell, h); err != nil {
			return err
		}
	}

	for r, row := range s.rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(s.name, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
