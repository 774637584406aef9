package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Path       string // HTTP path or "store.Method"
	StatusCode int    // HTTP status (0 for queries)
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer for timing entries. Writes are
// non-blocking and overwrite the oldest entry when full. All aggregation
// is deferred to Snapshot, so recording stays cheap on the request path.
type Collector struct {
	mu    sync.Mutex
	ring  []Entry
	size  int
	next  int
	total int64 // lifetime write count, read atomically
}

// NewCollector creates a collector with the given ring capacity. A size
// of zero or less falls back to DefaultRingSize.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		ring: make([]Entry, size),
		size: size,
	}
}

// Record stores an entry, overwriting the oldest when the ring is full.
// The critical section is one index bump and a struct copy.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.ring[c.next] = e
	c.next = (c.next + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.total, 1)
}

// TotalRecorded returns how many entries have ever been recorded,
// including entries already evicted from the ring.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.total)
}

// Snapshot holds aggregated performance data computed on read.
type Snapshot struct {
	TotalRequests  int64
	ServerErrors   int // requests in the window with status >= 500
	RequestP50Ms   float64
	RequestP95Ms   float64
	RequestP99Ms   float64
	SlowestPaths   []PathStat
	SlowestQueries []PathStat
}

// PathStat aggregates timing for a single path or store.method.
type PathStat struct {
	Path    string
	AvgMs   float64
	MaxMs   float64
	Count   int
	TotalMs float64
}

// Snapshot aggregates everything recorded at or after since. It sorts,
// so it belongs on the control panel read path, not per request.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.ring)
	c.mu.Unlock()

	requests := newAggregate()
	queries := newAggregate()
	var durations []float64
	var errored int

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			requests.add(e)
			durations = append(durations, e.DurationMs)
			if e.StatusCode >= 500 {
				errored++
			}
		case KindQuery:
			queries.add(e)
		}
	}

	snap := Snapshot{
		TotalRequests:  c.TotalRecorded(),
		ServerErrors:   errored,
		SlowestPaths:   requests.topByAvg(topN),
		SlowestQueries: queries.topByAvg(topN),
	}

	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// aggregate accumulates per-path stats for one entry kind.
type aggregate struct {
	byPath map[string]*PathStat
}

func newAggregate() *aggregate {
	return &aggregate{byPath: make(map[string]*PathStat)}
}

func (a *aggregate) add(e Entry) {
	s, ok := a.byPath[e.Path]
	if !ok {
		s = &PathStat{Path: e.Path}
		a.byPath[e.Path] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	if e.DurationMs > s.MaxMs {
		s.MaxMs = e.DurationMs
	}
}

// topByAvg finalizes averages and returns the n slowest paths.
func (a *aggregate) topByAvg(n int) []PathStat {
	list := make([]PathStat, 0, len(a.byPath))
	for _, s := range a.byPath {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].AvgMs > list[j].AvgMs
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}

// percentile linearly interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
