package set

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"
)

type (
	Key interface {
		~int | ~int64
	}

	// Bits is a set of small non-negative ids.
	// The zero value is an empty set.
	Bits[K Key] struct {
		b []uint64
	}
)

func MakeBits[K Key](keys ...K) Bits[K] {
	var s Bits[K]

	s.SetAll(keys...)

	return s
}

func (s Bits[K]) Copy() Bits[K] {
	c := Bits[K]{
		b: make([]uint64, len(s.b)),
	}

	copy(c.b, s.b)

	return c
}

func (s *Bits[K]) Set(k K) {
	i, j := ij(k)

	s.grow(i)

	s.b[i] |= 1 << j
}

func (s *Bits[K]) SetAll(keys ...K) {
	for _, k := range keys {
		s.Set(k)
	}
}

func (s Bits[K]) Clear(k K) {
	i, j := ij(k)

	if i >= len(s.b) {
		return
	}

	s.b[i] &^= 1 << j
}

func (s Bits[K]) IsSet(k K) bool {
	i, j := ij(k)

	if i >= len(s.b) {
		return false
	}

	return s.b[i]&(1<<j) != 0
}

func (s Bits[K]) Size() (r int) {
	for _, c := range s.b {
		r += bits.OnesCount64(c)
	}

	return r
}

// Range calls f for each key in ascending order until f returns false.
func (s Bits[K]) Range(f func(k K) bool) {
	for i, x := range s.b {
		if x == 0 {
			continue
		}

		for j := bits.TrailingZeros64(x); j < bits.Len64(x); j++ {
			if x&(1<<j) == 0 {
				continue
			}

			if !f(K(i*64 + j)) {
				return
			}
		}
	}
}

func (s *Bits[K]) Reset() {
	s.b = s.b[:0]
}

func (s Bits[K]) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if s.b == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)

	s.Range(func(k K) bool {
		b = e.AppendInt(b, int(k))

		return true
	})

	b = e.AppendBreak(b)

	return b
}

func (s *Bits[K]) grow(i int) {
	for i >= len(s.b) {
		s.b = append(s.b, 0)
	}
}

func ij[K Key](k K) (i, j int) {
	if k < 0 {
		panic("set: negative key")
	}

	p := int(k)

	return p / 64, p % 64
}
