// Copyright (c) 2015 The btcsuite developers
// Copyright (c) 2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handshake

import (
	"github.com/decred/dcrd/lru"
)

// DefaultNonceCacheSize is the number of sent nonces remembered by a
// NonceCache created with a zero limit.
const DefaultNonceCacheSize = 50

// NonceCache houses the unique nonces that are generated when sending version
// messages so self connections can be detected.  When the limit is exceeded
// the least recently used nonce is evicted.
//
// It is safe for concurrent access, so a single cache may be shared by every
// handshake a process runs.
type NonceCache struct {
	cache lru.Cache
}

// NewNonceCache returns a new nonce cache limited to the number of entries
// specified by limit, or DefaultNonceCacheSize when limit is zero.
func NewNonceCache(limit uint) *NonceCache {
	if limit == 0 {
		limit = DefaultNonceCacheSize
	}
	return &NonceCache{
		cache: lru.NewCache(limit),
	}
}

// Add remembers nonce as one we sent.
func (c *NonceCache) Add(nonce uint64) {
	c.cache.Add(nonce)
}

// Contains returns whether nonce is one we sent.
func (c *NonceCache) Contains(nonce uint64) bool {
	return c.cache.Contains(nonce)
}

// Delete forgets nonce, if present.
func (c *NonceCache) Delete(nonce uint64) {
	c.cache.Delete(nonce)
}
