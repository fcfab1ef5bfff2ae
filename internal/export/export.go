// Package export snapshots every collection into a single document,
// written as JSON or as an XLSX workbook.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/records"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Document is the export payload. Collections are never null.
type Document struct {
	ExportDate   time.Time               `json:"exportDate"`
	Expenses     []models.Expense        `json:"expenses"`
	Moods        []models.Mood           `json:"moods"`
	Habits       []models.Habit          `json:"habits"`
	HabitEntries []models.HabitEntry     `json:"habitEntries"`
	DailyPlans   []models.DailyPlanEntry `json:"dailyPlans"`
}

// Build reads every store through its merged view.
func Build(ctx context.Context, repo *records.Repository, now time.Time) Document {
	return Document{
		ExportDate:   now.UTC(),
		Expenses:     orEmpty(repo.Expenses.GetAll(ctx)),
		Moods:        orEmpty(repo.Moods.GetAll(ctx)),
		Habits:       orEmpty(repo.Habits.GetAll(ctx)),
		HabitEntries: orEmpty(repo.HabitEntries.GetAll(ctx)),
		DailyPlans:   orEmpty(repo.Plans.GetAll(ctx)),
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// FormatFor picks the format from a file extension; anything but .xlsx is JSON.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatJSON
}

// DefaultFileName is lifelog-export-YYYY-MM-DD.<ext>.
func DefaultFileName(now time.Time, format Format) string {
	return fmt.Sprintf("lifelog-export-%s.%s", now.Format("2006-01-02"), format)
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// Write encodes doc in format to w.
func Write(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, doc)
	case FormatJSON, "":
		return WriteJSON(w, doc)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteFile writes doc to path, choosing the format from its extension.
func WriteFile(path string, doc Document) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := Write(f, doc, FormatFor(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
