package cli

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/lifelog/internal/config"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/remote"
	"github.com/julianstephens/lifelog/internal/storage"
)

func TestContextCountsRecordChanges(t *testing.T) {
	cfg := &config.Config{Path: ":memory:", Timezone: "UTC", Location: time.UTC}
	c := NewContext(cfg, storage.NewMemoryKV(), remote.NewSession(nil))
	ctx := context.Background()

	if got := c.Changes(); len(got) != 0 {
		t.Fatalf("Changes() before any write = %v, want none", got)
	}

	e := models.Expense{ID: "e1", Date: "2024-01-05", Amount: models.NewAmount(3), Category: "food", Type: models.ExpenseTypeExpense}
	if _, err := c.Repo.Expenses.Save(ctx, e); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Repo.Moods.Save(ctx, models.Mood{Date: "2024-01-05", Mood: 6}); err != nil {
		t.Fatal(err)
	}
	if err := c.Repo.Expenses.Delete(ctx, "e1"); err != nil {
		t.Fatal(err)
	}
	// Preferences are not records.
	c.Repo.SetGender("female")

	want := []string{"expense=2", "mood=1"}
	if got := c.Changes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Changes() = %v, want %v", got, want)
	}
}
