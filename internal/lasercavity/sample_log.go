package lasercavity

import (
	"fmt"
	"sort"
	"sync"
)

type Category uint8

const (
	Stable   Category = iota // both planes stable
	Unstable                 // at least one plane unstable
	RingOpen                 // ring failed to close
	Failed                   // any other error while solving
)

var categoryNames = [...]string{"stable", "unstable", "ring-open", "error"}

func (c Category) String() string { return categoryNames[c] }

type SampleLog struct {
	Name      string
	Category  Category
	Vars      Variables
	Stability [2]Real // sagittal, tangential
	Err       error
}

type SampleLogCache struct {
	mu      sync.Mutex
	samples map[string][]SampleLog // map of sweep name to logs
}

var cache = &SampleLogCache{
	samples: make(map[string][]SampleLog),
}

func logSample(name string, category Category, vars Variables, stability [2]Real, err error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.samples[name] = append(cache.samples[name], SampleLog{
		Name:      name,
		Category:  category,
		Vars:      vars,
		Stability: stability,
		Err:       err,
	})
}

func resetSamples() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.samples = make(map[string][]SampleLog)
}

// sampleCounts returns per-category counts for one sweep.
func sampleCounts(name string) map[Category]int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	counts := make(map[Category]int)
	for _, s := range cache.samples[name] {
		counts[s.Category]++
	}
	return counts
}

func samplesStats() {
	cache.mu.Lock()
	names := make([]string, 0, len(cache.samples))
	for k := range cache.samples {
		names = append(names, k)
	}
	cache.mu.Unlock()
	sort.Strings(names)
	for _, k := range names {
		counts := sampleCounts(k)
		fmt.Printf("Sweep %s:", k)
		for c := Stable; c <= Failed; c++ {
			fmt.Printf(" %s=%d", c, counts[c])
		}
		fmt.Println()
	}
}
