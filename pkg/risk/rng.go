package risk

import (
	"math/rand"
	"sync"
	"time"
)

// Package-level RNG behind a mutex so concurrent rooms can share it.
// Tests call SeedRand for reproducible dice and shuffles.
var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// SeedRand reseeds the package RNG. Intended for tests.
func SeedRand(seed int64) {
	rngMu.Lock()
	defer rngMu.Unlock()
	rng = rand.New(rand.NewSource(seed))
}

func randIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}

func randFloat64() float64 {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Float64()
}

func randShuffle(n int, swap func(i, j int)) {
	rngMu.Lock()
	defer rngMu.Unlock()
	rng.Shuffle(n, swap)
}
