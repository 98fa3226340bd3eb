/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package firekit_test

import (
	"context"
	"testing"

	"github.com/suparena/firekit"
	"github.com/suparena/firekit/datastore"
	"github.com/suparena/firekit/datastore/memdb"
	"github.com/suparena/firekit/datastore/testmodels"
	"github.com/suparena/firekit/errors"
	"github.com/suparena/firekit/registry"
	"github.com/suparena/firekit/storagemodels"
)

func TestDocumentCRUD(t *testing.T) {
	ctx := context.Background()
	store := firekit.New(memdb.New())

	t.Run("AddDocument", func(t *testing.T) {
		id, err := store.AddDocument(ctx, "tasks", map[string]any{"title": "added"})
		if err != nil {
			t.Fatalf("AddDocument failed: %v", err)
		}
		if id == "" {
			t.Fatal("AddDocument returned an empty id")
		}

		task, err := firekit.FetchDocument(ctx, store, "tasks/"+id, testmodels.TaskFromRecord)
		if err != nil {
			t.Fatalf("FetchDocument failed: %v", err)
		}
		if task == nil || task.Title != "added" {
			t.Fatalf("Unexpected fetched task: %+v", task)
		}
	})

	t.Run("SetUpdateDelete", func(t *testing.T) {
		if err := store.SetDocument(ctx, "tasks/s1", map[string]any{"title": "set", "state": "open"}); err != nil {
			t.Fatalf("SetDocument failed: %v", err)
		}
		if err := store.UpdateDocument(ctx, "tasks/s1", map[string]any{"state": "done"}); err != nil {
			t.Fatalf("UpdateDocument failed: %v", err)
		}

		task, err := firekit.FetchDocument(ctx, store, "tasks/s1", testmodels.TaskFromRecord)
		if err != nil {
			t.Fatalf("FetchDocument failed: %v", err)
		}
		if task.Title != "set" || task.State != "done" {
			t.Fatalf("Unexpected task after update: %+v", task)
		}

		if err := store.DeleteDocument(ctx, "tasks/s1"); err != nil {
			t.Fatalf("DeleteDocument failed: %v", err)
		}
		task, err = firekit.FetchDocument(ctx, store, "tasks/s1", testmodels.TaskFromRecord)
		if err != nil {
			t.Fatalf("FetchDocument after delete failed: %v", err)
		}
		if task != nil {
			t.Fatalf("Deleted document should fetch as nil, got %+v", task)
		}
	})

	t.Run("UpdateMissingPropagates", func(t *testing.T) {
		err := store.UpdateDocument(ctx, "tasks/never-existed", map[string]any{"state": "done"})
		if !errors.IsNotFound(err) {
			t.Fatalf("Expected not found, got %v", err)
		}
	})
}

func TestFetchDocumentAbsentIsNil(t *testing.T) {
	ctx := context.Background()
	store := firekit.New(memdb.New())

	task, err := firekit.FetchDocument(ctx, store, "tasks/ghost", testmodels.TaskFromRecord)
	if err != nil {
		t.Fatalf("Absence must not be an error, got %v", err)
	}
	if task != nil {
		t.Fatalf("Expected nil for an absent document, got %+v", task)
	}
}

func TestIDInjectionWinsOverPayload(t *testing.T) {
	ctx := context.Background()
	store := firekit.New(memdb.New())

	// The payload carries its own conflicting "id" field.
	if err := store.SetDocument(ctx, "tasks/real-id", map[string]any{
		"id":    "impostor",
		"title": "who am I",
	}); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}

	task, err := firekit.FetchDocument(ctx, store, "tasks/real-id", testmodels.TaskFromRecord)
	if err != nil {
		t.Fatalf("FetchDocument failed: %v", err)
	}
	if task.ID != "real-id" {
		t.Fatalf("Store-assigned id must win, got %q", task.ID)
	}

	tasks, err := firekit.FetchCollection(ctx, store, "tasks", testmodels.TaskFromRecord)
	if err != nil {
		t.Fatalf("FetchCollection failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "real-id" {
		t.Fatalf("Store-assigned id must win in collection fetches too: %+v", tasks)
	}
}

func TestFetchCollection(t *testing.T) {
	ctx := context.Background()
	store := firekit.New(memdb.New())
	seedTasks(t, store, "tasks", 5)

	t.Run("All", func(t *testing.T) {
		tasks, err := firekit.FetchCollection(ctx, store, "tasks", testmodels.TaskFromRecord)
		if err != nil {
			t.Fatalf("FetchCollection failed: %v", err)
		}
		if len(tasks) != 5 {
			t.Fatalf("Expected 5 tasks, got %d", len(tasks))
		}
	})

	t.Run("WithLimit", func(t *testing.T) {
		tasks, err := firekit.FetchCollection(ctx, store, "tasks", testmodels.TaskFromRecord,
			storagemodels.WithLimit(2))
		if err != nil {
			t.Fatalf("FetchCollection failed: %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("Expected 2 tasks with limit, got %d", len(tasks))
		}
	})

	t.Run("WithTransform", func(t *testing.T) {
		tasks, err := firekit.FetchCollection(ctx, store, "tasks", testmodels.TaskFromRecord,
			storagemodels.WithQuery(func(q datastore.Query) datastore.Query {
				return q.Where("priority", ">=", 3)
			}))
		if err != nil {
			t.Fatalf("FetchCollection failed: %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("Expected 2 high-priority tasks, got %d", len(tasks))
		}
	})

	t.Run("Empty", func(t *testing.T) {
		tasks, err := firekit.FetchCollection(ctx, store, "nothing-here", testmodels.TaskFromRecord)
		if err != nil {
			t.Fatalf("FetchCollection failed: %v", err)
		}
		if len(tasks) != 0 {
			t.Fatalf("Expected no tasks, got %d", len(tasks))
		}
	})
}

func TestFetchRegistered(t *testing.T) {
	ctx := context.Background()
	store := firekit.New(memdb.New())
	seedTasks(t, store, "registered-tasks", 3)

	registry.RegisterDecoder("registered-tasks", func(record map[string]any) (any, error) {
		return testmodels.TaskFromRecord(record)
	})

	results, err := store.FetchRegistered(ctx, "registered-tasks")
	if err != nil {
		t.Fatalf("FetchRegistered failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 decoded values, got %d", len(results))
	}
	task, ok := results[0].(testmodels.Task)
	if !ok {
		t.Fatalf("Expected a testmodels.Task, got %T", results[0])
	}
	if task.ID != "t00" {
		t.Errorf("Expected first task t00, got %s", task.ID)
	}

	if _, err := store.FetchRegistered(ctx, "unregistered"); err == nil {
		t.Error("Expected an error for an unregistered collection")
	}
}
