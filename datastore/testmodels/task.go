/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import (
	"fmt"

	"github.com/go-openapi/strfmt"
)

// Task is the entity model shared by tests across packages.
type Task struct {

	// Unique identifier, assigned by the store.
	ID string `json:"id"`

	// Short human-readable title.
	// Required: true
	Title string `json:"title"`

	// Workflow state, e.g. "open", "done", "archived".
	State string `json:"state"`

	// Priority, higher is more urgent.
	Priority int `json:"priority"`

	// Due date.
	// Format: date-time
	Due *strfmt.DateTime `json:"due,omitempty"`
}

// TaskFromRecord decodes a raw record into a Task.
func TaskFromRecord(record map[string]any) (Task, error) {
	t := Task{}

	id, ok := record["id"].(string)
	if !ok {
		return t, fmt.Errorf("task record missing id: %v", record)
	}
	t.ID = id

	if v, ok := record["title"].(string); ok {
		t.Title = v
	}
	if v, ok := record["state"].(string); ok {
		t.State = v
	}
	switch v := record["priority"].(type) {
	case int:
		t.Priority = v
	case int64:
		t.Priority = int(v)
	case float64:
		t.Priority = int(v)
	}
	if v, ok := record["due"].(string); ok {
		due, err := strfmt.ParseDateTime(v)
		if err != nil {
			return t, fmt.Errorf("task %s has invalid due date %q: %w", t.ID, v, err)
		}
		t.Due = &due
	}
	return t, nil
}

// Record converts a Task to a raw field mapping, without the id.
func (t Task) Record() map[string]any {
	rec := map[string]any{
		"title":    t.Title,
		"state":    t.State,
		"priority": t.Priority,
	}
	if t.Due != nil {
		rec["due"] = t.Due.String()
	}
	return rec
}
