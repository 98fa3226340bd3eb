/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sync"
)

// DecodeFunc turns one raw record (field mapping with the synthesized "id"
// merged in) into a decoded value.
type DecodeFunc func(record map[string]any) (any, error)

var (
	decoderRegistry = make(map[string]DecodeFunc)
	mu              sync.RWMutex
)

// RegisterDecoder registers a decode function for a collection path.
// If a decoder is already registered for the path, it panics to prevent
// accidental overrides.
func RegisterDecoder(collectionPath string, fn DecodeFunc) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := decoderRegistry[collectionPath]; exists {
		panic(fmt.Sprintf("decoder registry: collection %q already registered", collectionPath))
	}
	decoderRegistry[collectionPath] = fn
}

// GetDecoder returns the registered decode function for the given
// collection path. If no decoder is registered, it returns an error.
func GetDecoder(collectionPath string) (DecodeFunc, error) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := decoderRegistry[collectionPath]
	if !ok {
		return nil, fmt.Errorf("decoder registry: no decoder registered for collection %q", collectionPath)
	}
	return fn, nil
}
