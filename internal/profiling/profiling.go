package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Per-frame CPU timings plus Prometheus histograms for the engine's hot
// operations (voxel writes, extraction, raycasts).

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)

	// Registry is private to the engine so embedding applications decide
	// whether and where to expose it.
	Registry = prometheus.NewRegistry()

	opSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "voxedit",
		Name:      "operation_seconds",
		Help:      "Duration of tracked engine operations.",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{"op"})

	counters = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voxedit",
		Name:      "events_total",
		Help:      "Counts of engine events such as recomputes and emitted faces.",
	}, []string{"event"})
)

func init() {
	Registry.MustRegister(opSeconds, counters)
}

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("meshing.Extract")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		opSeconds.WithLabelValues(name).Observe(d.Seconds())
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// Count adds n to the named event counter.
func Count(event string, n int) {
	if n <= 0 {
		return
	}
	counters.WithLabelValues(event).Add(float64(n))
}

// ResetFrame clears the per-frame totals.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	mu.Unlock()
}

// Snapshot returns a copy of the per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// TopN formats the n slowest entries of the current frame, e.g.
// "meshing.Extract:4.2ms, world.SetVoxel:0.1ms".
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		ms := float64(p.dur.Microseconds()) / 1000.0
		parts = append(parts, p.name+":"+strconv.FormatFloat(ms, 'f', 1, 64)+"ms")
	}
	return strings.Join(parts, ", ")
}
