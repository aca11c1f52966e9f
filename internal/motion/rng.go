package motion

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"math"
	"strconv"
)

// defaultSeed replaces a zero seed so the stream never degenerates into the
// generator's fixed point. Callers that want "some seed" can pass 0 and get
// this documented constant.
const defaultSeed int64 = 0x9E3779B9

// Sequence produces a deterministic stream of floats in [0, 1) from an
// integer seed and a nonce. The stream is an HMAC-SHA256 chain keyed by the
// seed; the nonce separates independent streams drawn from the same seed
// (one per target when a whole course is generated from a single seed).
// Identical (seed, nonce) pairs yield identical streams, forever.
type Sequence struct {
	key    []byte
	nonce  uint64
	round  uint64
	pos    int
	buffer [32]byte
}

// NewSequence creates a float stream for the given seed and nonce. A zero
// seed is mapped to a fixed nonzero default so the sequence cannot collapse.
func NewSequence(seed int64, nonce uint64) *Sequence {
	if seed == 0 {
		seed = defaultSeed
	}
	s := &Sequence{
		key:   []byte(strconv.FormatInt(seed, 10)),
		nonce: nonce,
	}
	s.generateRound()
	return s
}

// next returns the next byte from the stream.
func (s *Sequence) next() byte {
	if s.pos >= len(s.buffer) {
		s.round++
		s.pos = 0
		s.generateRound()
	}
	b := s.buffer[s.pos]
	s.pos++
	return b
}

// NextFloat consumes exactly 4 bytes and returns a float in [0, 1).
func (s *Sequence) NextFloat() float64 {
	b0 := s.next()
	b1 := s.next()
	b2 := s.next()
	b3 := s.next()
	return bytesToFloat([4]byte{b0, b1, b2, b3})
}

// NextUniform returns a float uniformly distributed in [min, max].
func (s *Sequence) NextUniform(min, max float64) float64 {
	return min + s.NextFloat()*(max-min)
}

func (s *Sequence) generateRound() {
	h := hmac.New(sha256.New, s.key)
	message := fmt.Sprintf("%d:%d", s.nonce, s.round)
	h.Write([]byte(message))
	copy(s.buffer[:], h.Sum(nil))
}

// bytesToFloat folds 4 bytes into a float64 in [0, 1), most significant
// byte first: sum of b[i] / 256^(i+1).
func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		divider := math.Pow(256, float64(i+1))
		result += float64(b) / divider
	}
	return result
}

// Floats generates count floats from the (seed, nonce) stream. Convenience
// wrapper for tests and golden-vector generation.
func Floats(seed int64, nonce uint64, count int) []float64 {
	s := NewSequence(seed, nonce)
	floats := make([]float64, count)
	for i := range floats {
		floats[i] = s.NextFloat()
	}
	return floats
}
