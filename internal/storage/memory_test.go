// Package storage_test tests the storage tier against the in-memory
// backend and stubbed remote dialers.
package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/vamshik/iplbot/internal/storage"
)

func TestMemoryInsertAndFind(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := storage.NewMemoryBackend()
	coll := backend.Collection("things")

	id, err := coll.InsertOne(ctx, storage.Doc{"name": "alpha", "count": int64(1)})
	if err != nil {
		t.Fatalf("InsertOne failed: %v", err)
	}
	if id == "" {
		t.Fatal("InsertOne returned empty id")
	}

	docs, err := coll.Find(ctx, storage.Filter{}, nil)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("Find returned %d docs, want 1", len(docs))
	}
	got := docs[0]
	if got["name"] != "alpha" || got["count"] != int64(1) {
		t.Errorf("stored doc = %v, want original fields", got)
	}
	if got["_id"] != id {
		t.Errorf("stored _id = %v, want %q", got["_id"], id)
	}
}

func TestMemoryDeepCopyIsolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	coll := storage.NewMemoryBackend().Collection("things")
	if _, err := coll.InsertOne(ctx, storage.Doc{"name": "alpha", "tags": []any{"x"}}); err != nil {
		t.Fatalf("InsertOne failed: %v", err)
	}

	first, err := coll.FindOne(ctx, storage.Where("name", storage.Eq, "alpha"))
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	first["name"] = "mutated"
	first["tags"].([]any)[0] = "mutated"

	second, err := coll.FindOne(ctx, storage.Where("name", storage.Eq, "alpha"))
	if err != nil {
		t.Fatalf("FindOne after mutation failed: %v", err)
	}
	if second == nil {
		t.Fatal("stored document was mutated through a returned copy")
	}
	if second["tags"].([]any)[0] != "x" {
		t.Error("nested slice was mutated through a returned copy")
	}

	// The inserted input must be isolated too.
	input := storage.Doc{"name": "beta"}
	if _, err := coll.InsertOne(ctx, input); err != nil {
		t.Fatalf("InsertOne failed: %v", err)
	}
	input["name"] = "mutated"
	doc, err := coll.FindOne(ctx, storage.Where("name", storage.Eq, "beta"))
	if err != nil || doc == nil {
		t.Fatalf("FindOne(beta) = %v, %v; want doc", doc, err)
	}
}

func TestMemoryUpdateOneFirstMatchOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	coll := storage.NewMemoryBackend().Collection("things")
	for _, n := range []string{"a", "a", "b"} {
		if _, err := coll.InsertOne(ctx, storage.Doc{"name": n, "seen": false}); err != nil {
			t.Fatalf("InsertOne failed: %v", err)
		}
	}

	updated, err := coll.UpdateOne(ctx, storage.Where("name", storage.Eq, "a"), storage.Doc{"seen": true})
	if err != nil {
		t.Fatalf("UpdateOne failed: %v", err)
	}
	if !updated {
		t.Fatal("UpdateOne reported no match")
	}

	count, err := coll.CountDocuments(ctx, storage.Where("seen", storage.Eq, true))
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("updated %d documents, want exactly 1", count)
	}

	// No match leaves the collection untouched.
	updated, err = coll.UpdateOne(ctx, storage.Where("name", storage.Eq, "zzz"), storage.Doc{"seen": true})
	if err != nil {
		t.Fatalf("UpdateOne failed: %v", err)
	}
	if updated {
		t.Error("UpdateOne reported a match for an absent document")
	}
}

func TestMemoryFindComparatorsAndSort(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	coll := storage.NewMemoryBackend().Collection("events")
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := coll.InsertOne(ctx, storage.Doc{"seq": int64(i), "at": base.Add(time.Duration(i) * time.Minute)})
		if err != nil {
			t.Fatalf("InsertOne failed: %v", err)
		}
	}

	t.Run("gte filter", func(t *testing.T) {
		t.Parallel()
		count, err := coll.CountDocuments(ctx, storage.Where("at", storage.Gte, base.Add(3*time.Minute)))
		if err != nil {
			t.Fatalf("CountDocuments failed: %v", err)
		}
		if count != 2 {
			t.Errorf("gte count = %d, want 2", count)
		}
	})

	t.Run("ne filter", func(t *testing.T) {
		t.Parallel()
		count, err := coll.CountDocuments(ctx, storage.Where("seq", storage.Ne, int64(0)))
		if err != nil {
			t.Fatalf("CountDocuments failed: %v", err)
		}
		if count != 4 {
			t.Errorf("ne count = %d, want 4", count)
		}
	})

	t.Run("missing sort field orders first ascending", func(t *testing.T) {
		t.Parallel()
		c := storage.NewMemoryBackend().Collection("mixed")
		if _, err := c.InsertOne(ctx, storage.Doc{"seq": int64(1), "at": base}); err != nil {
			t.Fatalf("InsertOne failed: %v", err)
		}
		if _, err := c.InsertOne(ctx, storage.Doc{"seq": int64(2)}); err != nil {
			t.Fatalf("InsertOne failed: %v", err)
		}

		asc, err := c.Find(ctx, storage.Filter{}, &storage.FindOptions{SortField: "at"})
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		if asc[0]["seq"] != int64(2) {
			t.Errorf("ascending sort put seq %v first, want the document without the field", asc[0]["seq"])
		}

		desc, err := c.Find(ctx, storage.Filter{}, &storage.FindOptions{SortField: "at", SortDesc: true})
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		if desc[len(desc)-1]["seq"] != int64(2) {
			t.Errorf("descending sort put seq %v last, want the document without the field", desc[len(desc)-1]["seq"])
		}
	})

	t.Run("incomparable values keep insertion order", func(t *testing.T) {
		t.Parallel()
		c := storage.NewMemoryBackend().Collection("mixed_types")
		for i, v := range []any{"alpha", int64(3), "beta"} {
			if _, err := c.InsertOne(ctx, storage.Doc{"seq": int64(i), "key": v}); err != nil {
				t.Fatalf("InsertOne failed: %v", err)
			}
		}

		docs, err := c.Find(ctx, storage.Filter{}, &storage.FindOptions{SortField: "key"})
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		// "alpha" and int64(3) are not mutually comparable; the stable
		// sort leaves such pairs where they were.
		if docs[0]["seq"] != int64(0) || docs[1]["seq"] != int64(1) || docs[2]["seq"] != int64(2) {
			t.Errorf("order = %v, %v, %v; want insertion order preserved",
				docs[0]["seq"], docs[1]["seq"], docs[2]["seq"])
		}
	})

	t.Run("sort desc with limit", func(t *testing.T) {
		t.Parallel()
		docs, err := coll.Find(ctx, storage.Filter{}, &storage.FindOptions{SortField: "at", SortDesc: true, Limit: 2})
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("Find returned %d docs, want 2", len(docs))
		}
		if docs[0]["seq"] != int64(4) || docs[1]["seq"] != int64(3) {
			t.Errorf("sort order = %v, %v; want 4, 3", docs[0]["seq"], docs[1]["seq"])
		}
	})
}

func TestMemoryDeleteOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	coll := storage.NewMemoryBackend().Collection("things")
	if _, err := coll.InsertOne(ctx, storage.Doc{"name": "a"}); err != nil {
		t.Fatalf("InsertOne failed: %v", err)
	}

	removed, err := coll.DeleteOne(ctx, storage.Where("name", storage.Eq, "a"))
	if err != nil {
		t.Fatalf("DeleteOne failed: %v", err)
	}
	if !removed {
		t.Fatal("DeleteOne reported no match")
	}

	removed, err = coll.DeleteOne(ctx, storage.Where("name", storage.Eq, "a"))
	if err != nil {
		t.Fatalf("DeleteOne failed: %v", err)
	}
	if removed {
		t.Error("DeleteOne reported a match after deletion")
	}
}

func TestMemoryFindOneAbsent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	coll := storage.NewMemoryBackend().Collection("things")
	doc, err := coll.FindOne(ctx, storage.Where("name", storage.Eq, "ghost"))
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if doc != nil {
		t.Errorf("FindOne on empty collection = %v, want nil", doc)
	}
}
