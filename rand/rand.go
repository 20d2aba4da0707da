// Package rand provides the explicit random sources that every noise-drawing
// call in this module takes as an argument. Nothing here touches process-global
// random state: a caller either seeds a source for reproducible runs or asks for
// one seeded from the operating system's entropy.
package rand

import (
	"bufio"
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math"
	mathrand "math/rand"
	"sync"

	log "github.com/golang/glog"
)

// Source is the random source consumed by the noise mechanisms. *math/rand.Rand
// satisfies it. A Source is not safe for concurrent use; use Split to hand
// independent sources to goroutines.
type Source interface {
	// Float64 returns a float in [0, 1).
	Float64() float64
	// NormFloat64 returns a standard normally distributed float.
	NormFloat64() float64
	// Int63 returns a non-negative pseudo-random 63-bit integer.
	Int63() int64
}

var (
	seedBufLock sync.Mutex
	seedBuf     io.Reader = bufio.NewReaderSize(cryptorand.Reader, 4096)
)

// New returns a deterministic Source for seed. Two sources built from the same
// seed produce the same sequence.
func New(seed int64) Source {
	return mathrand.New(mathrand.NewSource(seed))
}

// NewSecure returns a Source seeded from crypto/rand. The sequence itself is
// not cryptographically secure.
func NewSecure() Source {
	return New(secureSeed())
}

func secureSeed() int64 {
	var r [8]uint8
	seedBufLock.Lock()
	defer seedBufLock.Unlock()
	if _, err := io.ReadFull(seedBuf, r[:]); err != nil {
		log.Fatalf("out of randomness, should never happen: %v", err)
	}
	return int64(binary.LittleEndian.Uint64(r[:]) & math.MaxInt64)
}

// Split derives n independent sources from src. The derivation consumes n
// draws from src sequentially, so a seeded parent always yields the same
// children in the same order.
func Split(src Source, n int) []Source {
	out := make([]Source, n)
	for i := range out {
		out[i] = New(src.Int63())
	}
	return out
}

// Uniform returns a float64 from the interval (0,1]. Zero is excluded since
// callers take the logarithm of the output.
func Uniform(src Source) float64 {
	return 1 - src.Float64()
}

// Sign returns +1.0 or -1.0 with equal probabilities.
func Sign(src Source) float64 {
	if src.Int63()&1 == 0 {
		return 1.0
	}
	return -1.0
}
