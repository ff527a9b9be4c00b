// Package rng implements the counter-based random stream required by
// the transport kernel: a 64-bit PCG-family linear congruential
// generator with an exact Jump(delta) that costs O(64) multiplications
// regardless of delta, so per-history and per-cycle streams can be
// derived without ever drawing through the skipped range.
//
// The derivation scheme matches the kernel's design: history i of a
// cycle seeded from base stream b draws from
// b.Jump(uint64(i) * maxDrawsPerHistory); the base stream itself is
// advanced by N*maxDrawsPerHistory at the end of each cycle so that no
// two cycles, and no two histories within a cycle, ever overlap.
package rng

import "math/bits"

// outputMult is the avalanche-mixing multiplier applied to a copy of
// the raw LCG state before it is returned to the caller,
// the same "multiply-xorshift" combiner PCG uses to destroy the LCG's
// well-known low-bit periodicity without touching the underlying
// linear recurrence that makes Jump exact.
const (
	outputMult = 0xff51afd7ed558ccd
)

// lcgMult and lcgInc are the 64-bit PCG XSL-RR multiplier/increment
// pair (Melissa O'Neill, "PCG: A Family of Simple Fast Space-Efficient
// Statistically Good Algorithms for Random Number Generation").
const (
	lcgMult uint64 = 6364136223846793005
	lcgInc  uint64 = 1442695040888963407
)

// Stream is a single jumpable random-number stream. The zero value is
// not valid; construct with New.
type Stream struct {
	state uint64
}

// New constructs a stream from a base seed. The seed is mixed through
// splitmix64 before seeding the LCG state, the standard way to avoid
// low-quality initial states for small or structured seeds (the same
// mixing step used to expand a base seed into independent generator
// states elsewhere in the corpus).
func New(seed uint64) *Stream {
	s := &Stream{state: splitmix64(seed)}
	// Advance once so the first draw does not simply echo the mixed seed.
	s.state = s.state*lcgMult + lcgInc
	return s
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Clone returns an independent copy of the stream's current state.
func (s *Stream) Clone() *Stream {
	return &Stream{state: s.state}
}

// Jump returns a new stream positioned delta draws ahead of s, without
// mutating s and without drawing delta times. It uses the standard
// doubling construction for advancing a linear congruential recurrence
// x' = a*x + c by a closed form in O(log2(delta)) steps.
func (s *Stream) Jump(delta uint64) *Stream {
	curMult, curPlus := lcgMult, lcgInc
	accMult, accPlus := uint64(1), uint64(0)
	for delta > 0 {
		if delta&1 == 1 {
			accMult *= curMult
			accPlus = accPlus*curMult + curPlus
		}
		curPlus = (curMult + 1) * curPlus
		curMult *= curMult
		delta >>= 1
	}
	return &Stream{state: accMult*s.state + accPlus}
}

// next advances the LCG and returns the new state passed through a
// xorshift-multiply-xorshift-rotate output mixer. The mixer works on a
// copy, so the state recurrence that Jump reproduces is untouched.
func (s *Stream) next() uint64 {
	s.state = s.state*lcgMult + lcgInc
	x := s.state
	x ^= x >> 33
	x *= outputMult
	x ^= x >> 29
	return bits.RotateLeft64(x, 31)
}

// Uint64 draws one raw 64-bit value, consuming one jump unit.
func (s *Stream) Uint64() uint64 {
	return s.next()
}

// Float64 draws a uniform value in [0, 1) with 53 bits of precision,
// consuming one jump unit.
func (s *Stream) Float64() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}

// IntN draws a uniform integer in [0, n), consuming one jump unit. It
// panics if n <= 0, since a history asking for a sample from an empty
// range is a build or logic error, not a recoverable sampling failure.
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		panic("rng: IntN called with n <= 0")
	}
	return int(s.Uint64() % uint64(n))
}
