/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memdb

// subscriber receives a signal whenever a matching document changes. The
// signal channel has capacity one: a change that arrives while a snapshot is
// being recomputed coalesces with any other pending change instead of
// queueing, which matches "each emission reflects the latest full result".
type subscriber struct {
	collPath string
	docID    string // empty subscribes to the whole collection
	ch       chan struct{}
}

func (s *Store) subscribe(collPath, docID string) *subscriber {
	sub := &subscriber{
		collPath: collPath,
		docID:    docID,
		ch:       make(chan struct{}, 1),
	}
	s.subMu.Lock()
	s.subs[sub] = struct{}{}
	s.subMu.Unlock()
	return sub
}

func (s *Store) unsubscribe(sub *subscriber) {
	s.subMu.Lock()
	delete(s.subs, sub)
	s.subMu.Unlock()
}

func (s *Store) broadcast(collPath, docID string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for sub := range s.subs {
		if sub.collPath != collPath {
			continue
		}
		if sub.docID != "" && sub.docID != docID {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}
