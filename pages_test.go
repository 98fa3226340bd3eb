/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package firekit_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/suparena/firekit"
	"github.com/suparena/firekit/datastore"
	"github.com/suparena/firekit/datastore/memdb"
	"github.com/suparena/firekit/datastore/testmodels"
	"github.com/suparena/firekit/storagemodels"
)

// seedTasks stores n tasks with zero-padded ids so the default id ordering
// is the insertion ordering.
func seedTasks(t *testing.T, store *firekit.Store, collection string, n int) []string {
	t.Helper()
	ctx := context.Background()
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("t%02d", i)
		task := testmodels.Task{Title: fmt.Sprintf("task %d", i), State: "open", Priority: i}
		if err := store.SetDocument(ctx, collection+"/"+id, task.Record()); err != nil {
			t.Fatalf("SetDocument(%s) failed: %v", id, err)
		}
		ids[i] = id
	}
	return ids
}

func TestFetchPageExhaustive(t *testing.T) {
	ctx := context.Background()
	store := firekit.New(memdb.New())
	want := seedTasks(t, store, "tasks", 10)
	const pageSize = 3

	var got []string
	var cursor datastore.Document
	pages := 0
	for {
		opts := []storagemodels.Option{}
		if cursor != nil {
			opts = append(opts, storagemodels.WithStartAfter(cursor))
		}
		page, err := firekit.FetchPage(ctx, store, "tasks", testmodels.TaskFromRecord, pageSize, opts...)
		if err != nil {
			t.Fatalf("FetchPage failed: %v", err)
		}
		pages++

		if page.HasMore && len(page.Items) != pageSize {
			t.Errorf("Page %d has %d items, expected a full page of %d", pages, len(page.Items), pageSize)
		}
		for _, task := range page.Items {
			got = append(got, task.ID)
		}
		if !page.HasMore {
			break
		}
		cursor = page.Cursor
	}

	if pages != 4 {
		t.Errorf("Expected 4 pages for 10 records at size 3, got %d", pages)
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d items across pages, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i] != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, got[i])
		}
	}
}

func TestFetchPageExactBoundary(t *testing.T) {
	ctx := context.Background()
	store := firekit.New(memdb.New())
	seedTasks(t, store, "tasks", 3)

	page, err := firekit.FetchPage(ctx, store, "tasks", testmodels.TaskFromRecord, 3)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(page.Items) != 3 {
		t.Errorf("Expected exactly 3 items, got %d", len(page.Items))
	}
	if page.HasMore {
		t.Error("HasMore must be false when the result set is exactly one page")
	}
	if page.Cursor == nil {
		t.Error("Cursor should reference the last retained record")
	} else if page.Cursor.ID() != "t02" {
		t.Errorf("Cursor should be the last retained record, got %s", page.Cursor.ID())
	}
}

func TestFetchPageCursorStability(t *testing.T) {
	ctx := context.Background()
	store := firekit.New(memdb.New())
	seedTasks(t, store, "tasks", 6)

	first, err := firekit.FetchPage(ctx, store, "tasks", testmodels.TaskFromRecord, 3)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	second, err := firekit.FetchPage(ctx, store, "tasks", testmodels.TaskFromRecord, 3,
		storagemodels.WithStartAfter(first.Cursor))
	if err != nil {
		t.Fatalf("FetchPage with cursor failed: %v", err)
	}

	seen := map[string]bool{}
	for _, task := range first.Items {
		seen[task.ID] = true
	}
	for _, task := range second.Items {
		if seen[task.ID] {
			t.Errorf("Item %s returned on both pages", task.ID)
		}
	}
	if second.HasMore {
		t.Error("Second page of 6 records at size 3 should be the last")
	}
}

func TestFetchPageEmptyCollection(t *testing.T) {
	ctx := context.Background()
	store := firekit.New(memdb.New())

	page, err := firekit.FetchPage(ctx, store, "tasks", testmodels.TaskFromRecord, 5)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("Expected no items, got %d", len(page.Items))
	}
	if page.Cursor != nil {
		t.Error("Cursor must be absent for an empty page")
	}
	if page.HasMore {
		t.Error("HasMore must be false for an empty collection")
	}
}

func TestFetchPageWithTransform(t *testing.T) {
	ctx := context.Background()
	store := firekit.New(memdb.New())
	seedTasks(t, store, "tasks", 8)
	if err := store.UpdateDocument(ctx, "tasks/t03", map[string]any{"state": "done"}); err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}

	openOnly := func(q datastore.Query) datastore.Query {
		return q.Where("state", "==", "open")
	}
	page, err := firekit.FetchPage(ctx, store, "tasks", testmodels.TaskFromRecord, 10,
		storagemodels.WithQuery(openOnly))
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(page.Items) != 7 {
		t.Errorf("Expected 7 open tasks, got %d", len(page.Items))
	}
	for _, task := range page.Items {
		if task.State != "open" {
			t.Errorf("Transform not applied: task %s has state %q", task.ID, task.State)
		}
	}
}

func TestFetchPageErrorPropagates(t *testing.T) {
	ctx := context.Background()
	backend := memdb.New()
	store := firekit.New(backend)
	seedTasks(t, store, "tasks", 2)

	backend.WithQueryErr(fmt.Errorf("backend exploded"))
	_, err := firekit.FetchPage(ctx, store, "tasks", testmodels.TaskFromRecord, 5)
	if err == nil || err.Error() != "backend exploded" {
		t.Fatalf("Expected the backend error unchanged, got %v", err)
	}
}

func TestWatchPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := firekit.New(memdb.New())
	seedTasks(t, store, "tasks", 2)

	events := firekit.WatchPages(ctx, store, "tasks", testmodels.TaskFromRecord, 2)

	first := <-events
	if first.Err != nil {
		t.Fatalf("Initial page event failed: %v", first.Err)
	}
	if len(first.Page.Items) != 2 || first.Page.HasMore {
		t.Fatalf("Unexpected initial page: %+v", first.Page)
	}

	// A third record makes the first page over-full.
	if err := store.SetDocument(ctx, "tasks/t99", testmodels.Task{Title: "late"}.Record()); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}

	second := <-events
	if second.Err != nil {
		t.Fatalf("Page event after change failed: %v", second.Err)
	}
	if len(second.Page.Items) != 2 || !second.Page.HasMore {
		t.Fatalf("Expected a full page with more data, got %+v", second.Page)
	}

	cancel()
	for range events {
		// drain until close
	}
}
