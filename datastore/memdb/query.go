/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/suparena/firekit/datastore"
	"github.com/suparena/firekit/errors"
)

type filter struct {
	field string
	op    string
	value any
}

type order struct {
	field string
	desc  bool
}

var validOps = map[string]bool{
	"==": true,
	"!=": true,
	"<":  true,
	"<=": true,
	">":  true,
	">=": true,
}

// query implements datastore.Query. Refinement methods copy the receiver,
// so handles can be shared and re-refined freely.
type query struct {
	coll     *collection
	filters  []filter
	orders   []order
	limit    int
	hasLimit bool
	cursor   datastore.Document
	err      error
}

func (q query) Where(field, op string, value any) datastore.Query {
	if q.err == nil && !validOps[op] {
		q.err = errors.Newf(errors.InvalidArgument, nil, "invalid filter operator %q", op)
	}
	q.filters = append(q.filters[:len(q.filters):len(q.filters)], filter{field: field, op: op, value: value})
	return q
}

func (q query) OrderBy(field, dir string) datastore.Query {
	if q.err == nil && dir != datastore.Ascending && dir != datastore.Descending {
		q.err = errors.Newf(errors.InvalidArgument, nil, "invalid order direction %q", dir)
	}
	q.orders = append(q.orders[:len(q.orders):len(q.orders)], order{field: field, desc: dir == datastore.Descending})
	return q
}

func (q query) Limit(n int) datastore.Query {
	if q.err == nil && n <= 0 {
		q.err = errors.Newf(errors.InvalidArgument, nil, "limit must be positive, got %d", n)
	}
	q.limit = n
	q.hasLimit = true
	return q
}

func (q query) StartAfter(doc datastore.Document) datastore.Query {
	q.cursor = doc
	return q
}

func (q query) Documents(ctx context.Context) ([]datastore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.New(errors.Canceled, err, "run query")
	}
	return q.run()
}

func (q query) Snapshots(ctx context.Context) <-chan datastore.QuerySnapshot {
	out := make(chan datastore.QuerySnapshot)
	if q.err != nil {
		go func() {
			defer close(out)
			select {
			case out <- datastore.QuerySnapshot{Err: q.err}:
			case <-ctx.Done():
			}
		}()
		return out
	}

	sub := q.coll.store.subscribe(q.coll.path, "")
	go func() {
		defer close(out)
		defer q.coll.store.unsubscribe(sub)
		for {
			docs, err := q.run()
			snap := datastore.QuerySnapshot{Docs: docs, Size: len(docs), Err: err}
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
			select {
			case <-sub.ch:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// run evaluates the query against the current store state: filter, order,
// cursor, then limit, in that sequence.
func (q query) run() ([]datastore.Document, error) {
	if q.err != nil {
		return nil, q.err
	}
	store := q.coll.store
	if store.queryErr != nil {
		return nil, store.queryErr
	}

	store.mu.RLock()
	var docs []*document
	for id, data := range store.collections[q.coll.path] {
		docs = append(docs, &document{
			ref:  store.Doc(q.coll.path + "/" + id).(*docRef),
			data: deepCopy(data),
		})
	}
	store.mu.RUnlock()

	docs = q.applyFilters(docs)
	q.sortDocs(docs)
	docs = q.applyCursor(docs)
	if q.hasLimit && len(docs) > q.limit {
		docs = docs[:q.limit]
	}

	out := make([]datastore.Document, len(docs))
	for i, d := range docs {
		out[i] = d
	}
	return out, nil
}

func (q query) applyFilters(docs []*document) []*document {
	if len(q.filters) == 0 {
		return docs
	}
	var kept []*document
	for _, d := range docs {
		if q.matches(d) {
			kept = append(kept, d)
		}
	}
	return kept
}

func (q query) matches(d *document) bool {
	for _, f := range q.filters {
		val, ok := d.data[f.field]
		if !ok {
			return false
		}
		c, comparable := compareValues(val, f.value)
		if !comparable {
			return false
		}
		var match bool
		switch f.op {
		case "==":
			match = c == 0
		case "!=":
			match = c != 0
		case "<":
			match = c < 0
		case "<=":
			match = c <= 0
		case ">":
			match = c > 0
		case ">=":
			match = c >= 0
		}
		if !match {
			return false
		}
	}
	return true
}

// sortDocs orders docs by the explicit orderings with the document id as the
// final tiebreaker, which is also the default order when no ordering is
// given. A document missing an ordered field compares equal on it and falls
// through to the tiebreaker.
func (q query) sortDocs(docs []*document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return q.less(docs[i], docs[j])
	})
}

func (q query) less(a, b *document) bool {
	for _, o := range q.orders {
		c, ok := compareValues(a.data[o.field], b.data[o.field])
		if !ok || c == 0 {
			continue
		}
		if o.desc {
			return c > 0
		}
		return c < 0
	}
	c := strings.Compare(a.ref.id, b.ref.id)
	if q.idDescending() {
		return c > 0
	}
	return c < 0
}

// idDescending reports the direction of the implicit id tiebreaker, which
// follows the last explicit ordering.
func (q query) idDescending() bool {
	if len(q.orders) == 0 {
		return false
	}
	return q.orders[len(q.orders)-1].desc
}

// applyCursor drops every document at or before the cursor position. The
// position is determined by the ordered field values captured in the cursor
// document, not by its current existence, so stale cursors keep working.
func (q query) applyCursor(docs []*document) []*document {
	if q.cursor == nil {
		return docs
	}
	cursorDoc := &document{
		ref:  &docRef{id: q.cursor.ID()},
		data: q.cursor.Data(),
	}
	var kept []*document
	for _, d := range docs {
		if q.less(cursorDoc, d) {
			kept = append(kept, d)
		}
	}
	return kept
}

// compareValues compares two field values of the kinds the store indexes:
// numbers, strings, booleans and timestamps. The second result is false
// when the values are not mutually comparable.
func compareValues(a, b any) (int, bool) {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		if !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case bv:
			return -1, true
		}
		return 1, true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
