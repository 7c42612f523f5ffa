package lasercavity

import "testing"

func TestSampleLogCache(t *testing.T) {
	resetSamples()
	logSample("foo", Stable, Variables{X: 1}, [2]Real{0.1, 0.2}, nil)
	logSample("foo", Unstable, Variables{X: 2}, [2]Real{1.1, 0.2}, nil)
	logSample("bar", RingOpen, Variables{}, [2]Real{}, ErrRingNotClosed)
	if len(cache.samples["foo"]) != 2 || len(cache.samples["bar"]) != 1 {
		t.Fatalf("unexpected cache sizes: %+v", cache.samples)
	}
	if c := sampleCounts("foo"); c[Stable] != 1 || c[Unstable] != 1 || c[Failed] != 0 {
		t.Fatalf("counts %v", c)
	}
	if Failed.String() != "error" || RingOpen.String() != "ring-open" {
		t.Fatal("category names")
	}
	resetSamples()
	if len(cache.samples) != 0 {
		t.Fatal("reset kept samples")
	}
}
