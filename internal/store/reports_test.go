package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/db"
)

func TestCreateAndListReports(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustCreateUser(t, database, "Ana", "ana@example.com")
	reporter := mustCreateUser(t, database, "Bojan", "bojan@example.com")
	item := mustCreateItem(t, database, owner.ID)

	r, err := CreateReport(ctx, database, item.ID, &reporter.ID, "bojan@example.com", "spam listing")
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if r.ReporterContact != "bojan@example.com" || r.Reason != "spam listing" {
		t.Errorf("report fields: %+v", r)
	}
	if r.Item == nil || r.Item.Title != "Wallet" {
		t.Errorf("item not joined: %+v", r.Item)
	}

	all, err := ListReports(ctx, database, 0, 10)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if all.TotalElements != 1 {
		t.Errorf("expected 1 report, got %d", all.TotalElements)
	}

	mine, _ := ListReportsByReporter(ctx, database, reporter.ID, 0, 10)
	if mine.TotalElements != 1 {
		t.Errorf("expected 1 report for reporter, got %d", mine.TotalElements)
	}

	none, _ := ListReportsByReporter(ctx, database, owner.ID, 0, 10)
	if none.TotalElements != 0 {
		t.Errorf("expected no reports for owner, got %d", none.TotalElements)
	}
}

func TestCreateReportMissingItem(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreateReport(context.Background(), database, 999, nil, "x@example.com", "")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReportSurvivesItemModeration(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustCreateUser(t, database, "Ana", "ana@example.com")
	item := mustCreateItem(t, database, owner.ID)
	r, _ := CreateReport(ctx, database, item.ID, nil, "anon@example.com", "stolen goods")

	// Moderation soft-deletes the item; the report remains readable with
	// the flag visible.
	if err := SoftDeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("SoftDeleteItem: %v", err)
	}

	got, err := GetReport(ctx, database, r.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got == nil || !got.Item.SoftDeleted {
		t.Errorf("expected report with soft-deleted item, got %+v", got)
	}
}
