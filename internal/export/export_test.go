package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/records"
	"github.com/julianstephens/lifelog/internal/storage"
)

func seededRepo(t *testing.T) *records.Repository {
	t.Helper()
	ctx := context.Background()
	repo := records.New(storage.NewMemoryKV(), nil, nil)

	if _, err := repo.Expenses.Save(ctx, models.Expense{
		ID:       "e1",
		Amount:   models.NewAmount(42.5),
		Category: "food",
		Type:     models.ExpenseTypeExpense,
		Date:     "2024-03-01",
	}); err != nil {
		t.Fatalf("Save expense failed: %v", err)
	}
	if _, err := repo.Moods.Save(ctx, models.Mood{Date: "2024-03-01", Mood: 7}); err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestExportJSONKeepsAmountNumeric(t *testing.T) {
	repo := seededRepo(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := Build(context.Background(), repo, now)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, doc); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	var keys []string
	for k := range decoded {
		keys = append(keys, k)
	}
	for _, want := range []string{"exportDate", "expenses", "moods", "habits", "habitEntries", "dailyPlans"} {
		if _, ok := decoded[want]; !ok {
			t.Errorf("export missing %q (have %v)", want, keys)
		}
	}

	if habits, ok := decoded["habits"].([]interface{}); !ok || len(habits) != 0 {
		t.Errorf("empty collection should be [], got %#v", decoded["habits"])
	}

	expenses := decoded["expenses"].([]interface{})
	if len(expenses) != 1 {
		t.Fatalf("expenses = %v", expenses)
	}
	e1 := expenses[0].(map[string]interface{})
	want := map[string]interface{}{
		"id":       "e1",
		"amount":   42.5,
		"category": "food",
		"type":     "expense",
		"date":     "2024-03-01",
	}
	for k, v := range want {
		if !reflect.DeepEqual(e1[k], v) {
			t.Errorf("expense %s = %#v, want %#v", k, e1[k], v)
		}
	}
	if decoded["exportDate"] != "2024-03-01T12:00:00Z" {
		t.Errorf("exportDate = %v", decoded["exportDate"])
	}
}

func TestExportXLSX(t *testing.T) {
	repo := seededRepo(t)
	doc := Build(context.Background(), repo, time.Now())

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, doc); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("workbook unreadable: %v", err)
	}
	defer f.Close()

	wantSheets := []string{"Expenses", "Moods", "Habits", "Habit Entries", "Daily Plans"}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, wantSheets) {
		t.Errorf("sheets = %v, want %v", got, wantSheets)
	}

	header, _ := f.GetCellValue("Expenses", "E1")
	amount, _ := f.GetCellValue("Expenses", "E2")
	if header != "Amount" || amount != "42.5" {
		t.Errorf("Expenses E1/E2 = %q/%q", header, amount)
	}
	mood, _ := f.GetCellValue("Moods", "B2")
	if mood != "7" {
		t.Errorf("Moods B2 = %q", mood)
	}
}

func TestWriteFileChoosesFormat(t *testing.T) {
	doc := Build(context.Background(), seededRepo(t), time.Now())
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out.json")
	if err := WriteFile(jsonPath, doc); err != nil {
		t.Fatalf("WriteFile json failed: %v", err)
	}
	data, _ := os.ReadFile(jsonPath)
	if !json.Valid(data) {
		t.Error("json export is not valid JSON")
	}

	xlsxPath := filepath.Join(dir, "out.XLSX")
	if err := WriteFile(xlsxPath, doc); err != nil {
		t.Fatalf("WriteFile xlsx failed: %v", err)
	}
	if _, err := excelize.OpenFile(xlsxPath); err != nil {
		t.Errorf("xlsx export unreadable: %v", err)
	}
}

func TestFormatHelpers(t *testing.T) {
	if FormatFor("a.xlsx") != FormatXLSX || FormatFor("a.json") != FormatJSON || FormatFor("a") != FormatJSON {
		t.Error("FormatFor mismatch")
	}
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := DefaultFileName(day, FormatXLSX); got != "lifelog-export-2024-03-01.xlsx" {
		t.Errorf("DefaultFileName = %q", got)
	}
	if err := Write(&bytes.Buffer{}, Document{}, Format("csv")); err == nil {
		t.Error("expected unsupported format error")
	}
}
