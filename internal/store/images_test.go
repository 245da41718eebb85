package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/db"
)

func TestItemImages(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustCreateUser(t, database, "Ana", "ana@example.com")
	item := mustCreateItem(t, database, owner.ID)

	first, err := AddItemImage(ctx, database, "ref-1", item.ID, []byte("img1"), "image/jpeg")
	if err != nil {
		t.Fatalf("AddItemImage: %v", err)
	}
	if first.Position != 0 {
		t.Errorf("first image position = %d, want 0", first.Position)
	}

	second, _ := AddItemImage(ctx, database, "ref-2", item.ID, []byte("img2"), "image/jpeg")
	if second.Position != 1 {
		t.Errorf("second image position = %d, want 1", second.Position)
	}

	// Ordered sequence on the item.
	got, _ := GetItem(ctx, database, item.ID)
	if len(got.Images) != 2 || got.Images[0].Ref != "ref-1" || got.Images[1].Ref != "ref-2" {
		t.Errorf("image order wrong: %+v", got.Images)
	}

	data, mime, err := GetImageData(ctx, database, "ref-2")
	if err != nil {
		t.Fatalf("GetImageData: %v", err)
	}
	if string(data) != "img2" || mime != "image/jpeg" {
		t.Errorf("image data = %q %q", data, mime)
	}
}

func TestAddImageMissingItem(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := AddItemImage(context.Background(), database, "ref-x", 999, []byte("x"), "image/jpeg")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetImageDataMissing(t *testing.T) {
	database := db.NewTestDB(t)

	data, _, err := GetImageData(context.Background(), database, "nope")
	if err != nil {
		t.Fatalf("GetImageData: %v", err)
	}
	if data != nil {
		t.Error("expected nil data for unknown ref")
	}
}
