//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package fsdb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/suparena/firekit"
	"github.com/suparena/firekit/datastore/testmodels"
	"github.com/suparena/firekit/storagemodels"
)

// getStore connects to the Firestore project named in the environment.
// Requires FIREKIT_PROJECT_ID and application default credentials; an
// optional FIREKIT_TEST_COLLECTION overrides the collection used.
func getStore(t *testing.T) (*firekit.Store, string) {
	t.Helper()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}

	projectID := os.Getenv("FIREKIT_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIREKIT_PROJECT_ID not set")
	}
	collection := os.Getenv("FIREKIT_TEST_COLLECTION")
	if collection == "" {
		collection = fmt.Sprintf("firekit-integration-%d", time.Now().UnixNano())
	}

	client, err := New(context.Background(), projectID)
	if err != nil {
		t.Fatalf("connect to Firestore: %v", err)
	}
	return firekit.New(client), collection
}

func TestIntegrationPaginationRoundTrip(t *testing.T) {
	store, collection := getStore(t)
	defer store.Close()
	ctx := context.Background()

	const total, pageSize = 7, 3
	for i := 0; i < total; i++ {
		task := testmodels.Task{Title: fmt.Sprintf("task %d", i), State: "open", Priority: i}
		if _, err := store.AddDocument(ctx, collection, task.Record()); err != nil {
			t.Fatalf("AddDocument failed: %v", err)
		}
	}
	defer func() {
		if n, err := store.UpdateWhere(ctx, collection, "state", "archived",
			func(map[string]any) bool { return true }); err != nil || n != total {
			t.Logf("cleanup mark pass: n=%d err=%v", n, err)
		}
	}()

	var seen []string
	var cursor = []storagemodels.Option{}
	pages := 0
	for {
		page, err := firekit.FetchPage(ctx, store, collection, testmodels.TaskFromRecord, pageSize, cursor...)
		if err != nil {
			t.Fatalf("FetchPage failed: %v", err)
		}
		pages++
		for _, task := range page.Items {
			seen = append(seen, task.ID)
		}
		if !page.HasMore {
			break
		}
		cursor = []storagemodels.Option{storagemodels.WithStartAfter(page.Cursor)}
	}

	if len(seen) != total {
		t.Fatalf("Expected %d tasks across pages, got %d", total, len(seen))
	}
	if pages != 3 {
		t.Errorf("Expected 3 pages of size %d, got %d", pageSize, pages)
	}
	unique := map[string]bool{}
	for _, id := range seen {
		if unique[id] {
			t.Errorf("Duplicate id across pages: %s", id)
		}
		unique[id] = true
	}
}

func TestIntegrationWatchDocument(t *testing.T) {
	store, collection := getStore(t)
	defer store.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	id, err := store.AddDocument(ctx, collection, testmodels.Task{Title: "watched", State: "open"}.Record())
	if err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}
	path := collection + "/" + id

	events := firekit.WatchDocument(ctx, store, path, testmodels.TaskFromRecord)

	first := <-events
	if first.Err != nil || first.Value == nil || first.Value.State != "open" {
		t.Fatalf("Unexpected initial event: %+v", first)
	}

	if err := store.UpdateDocument(ctx, path, map[string]any{"state": "done"}); err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}
	for event := range events {
		if event.Err != nil {
			t.Fatalf("watch error: %v", event.Err)
		}
		if event.Value != nil && event.Value.State == "done" {
			return
		}
	}
	t.Fatal("never observed the update")
}
