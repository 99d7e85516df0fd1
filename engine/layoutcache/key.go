package layoutcache

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Key identifies a layout: a digest of content and constraints.
type Key uint64

func (k Key) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

// Hasher computes keys. Every value is written with its length or a type
// tag, so that different sequences of values yield different byte streams.
//
//	key := layoutcache.NewHasher().String(text).Float(width).Bool(hyphenate).Sum()
type Hasher struct {
	d   *xxhash.Digest
	buf [9]byte
}

// NewHasher creates a hasher.
func NewHasher() *Hasher {
	return &Hasher{d: xxhash.New()}
}

func (h *Hasher) tagged(tag byte, v uint64) *Hasher {
	h.buf[0] = tag
	binary.LittleEndian.PutUint64(h.buf[1:], v)
	_, _ = h.d.Write(h.buf[:])
	return h
}

// String adds a string.
func (h *Hasher) String(s string) *Hasher {
	h.tagged('s', uint64(len(s)))
	_, _ = h.d.WriteString(s)
	return h
}

// Int adds an integer.
func (h *Hasher) Int(n int) *Hasher {
	return h.tagged('i', uint64(n))
}

// Float adds a float. All NaNs hash alike, as do 0 and -0.
func (h *Hasher) Float(f float64) *Hasher {
	switch {
	case math.IsNaN(f):
		f = math.NaN()
	case f == 0:
		f = 0
	}
	return h.tagged('f', math.Float64bits(f))
}

// Bool adds a flag.
func (h *Hasher) Bool(b bool) *Hasher {
	if b {
		return h.tagged('b', 1)
	}
	return h.tagged('b', 0)
}

// Sum returns the key for everything added so far.
func (h *Hasher) Sum() Key {
	return Key(h.d.Sum64())
}
