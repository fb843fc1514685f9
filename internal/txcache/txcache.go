// Package txcache hands out transaction hashes drawn from the fallback
// chain's latest block. An agent whose topic pool ran dry asks about one
// of these instead of going silent.
package txcache

import (
	"context"
	"math/rand"
)

// ZeroHash is the placeholder used when the fallback chain has nothing to
// offer either.
const ZeroHash = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Fetcher pulls a fresh batch of transaction hashes.
type Fetcher func(ctx context.Context) ([]string, error)

// Cache hands out hashes one at a time, refilling itself through a Fetcher
// when it runs dry. Hashes are drawn in random order so consecutive
// receipts do not share an obvious pattern. Not safe for concurrent use.
type Cache struct {
	rng    *rand.Rand
	hashes []string
}

func New(rng *rand.Rand) *Cache {
	return &Cache{rng: rng}
}

// Len reports how many hashes remain in the pool.
func (c *Cache) Len() int {
	return len(c.hashes)
}

// Random returns one hash, refilling the pool first if it is empty. A
// refill that fails or comes back empty yields ZeroHash; the next call
// tries to refill again.
func (c *Cache) Random(ctx context.Context, fetch Fetcher) string {
	if len(c.hashes) == 0 {
		fresh, err := fetch(ctx)
		if err != nil {
			return ZeroHash
		}
		c.hashes = fresh
	}
	if len(c.hashes) == 0 {
		return ZeroHash
	}
	i := c.rng.Intn(len(c.hashes))
	hash := c.hashes[i]
	c.hashes = append(c.hashes[:i], c.hashes[i+1:]...)
	return hash
}
