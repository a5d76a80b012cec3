package parallel

import (
	"sync"
	"testing"
)

func TestRowsCoversEveryRowOnce(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	for _, height := range []int{1, 15, 16, 64, 100, 1081} {
		hits := make([]int, height)
		var mu sync.Mutex
		p.Rows(height, func(y0, y1 int) {
			mu.Lock()
			defer mu.Unlock()
			for y := y0; y < y1; y++ {
				hits[y]++
			}
		})
		for y, n := range hits {
			if n != 1 {
				t.Fatalf("height %d: row %d visited %d times", height, y, n)
			}
		}
	}
}

func TestRowsSmallHeightRunsInline(t *testing.T) {
	p := NewPool(8)
	defer p.Close()

	calls := 0
	p.Rows(minBandRows*2-1, func(y0, y1 int) {
		calls++
		if y0 != 0 || y1 != minBandRows*2-1 {
			t.Errorf("band = [%d, %d)", y0, y1)
		}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	p.Rows(0, func(int, int) { t.Error("called for empty height") })
}

func TestRowsAfterClose(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()

	calls := 0
	p.Rows(256, func(y0, y1 int) {
		calls++
	})
	if calls != 1 {
		t.Errorf("calls after Close = %d, want 1", calls)
	}
}

func TestNewPoolDefaultsWorkers(t *testing.T) {
	p := NewPool(0)
	defer p.Close()
	if p.Workers() < 1 {
		t.Errorf("Workers() = %d", p.Workers())
	}
}
