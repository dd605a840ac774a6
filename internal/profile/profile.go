// Package profile records scoped instrumentation regions: wall time, heap
// allocation deltas, and a per-operation event table filled in by an
// instrumented backend.
//
// A region is opened with Start and closed with Stop:
//
//	rec := profile.Start("forward")
//	restore := backend.Instrument(rec)
//	out := model.Forward(x)
//	restore()
//	prof := rec.Stop()
//	fmt.Print(prof.Table())
//
// A nil *Recorder is valid and records nothing, so callers can pass one around
// unconditionally.
package profile

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Event aggregates every call of one operation inside a region.
type Event struct {
	Name  string        // Operation name (e.g. "matmul")
	Calls int           // Number of calls
	Total time.Duration // Summed wall time
	Bytes int64         // Summed size of produced tensors
}

// Average returns the mean wall time per call.
func (e Event) Average() time.Duration {
	if e.Calls == 0 {
		return 0
	}
	return e.Total / time.Duration(e.Calls)
}

// Profile is the result of one closed region.
type Profile struct {
	Label      string        // Region label
	Site       string        // file:line that opened the region
	StartedAt  time.Time     // When the region was opened
	Wall       time.Duration // Wall time between Start and Stop
	Mallocs    uint64        // Heap objects allocated inside the region
	AllocBytes uint64        // Heap bytes allocated inside the region
	Events     []Event       // Per-operation aggregates, in first-seen order
}

// TotalOpTime returns the wall time attributed to recorded operations.
func (p *Profile) TotalOpTime() time.Duration {
	var d time.Duration
	for _, e := range p.Events {
		d += e.Total
	}
	return d
}

// Table renders the events sorted by total time, heaviest first.
func (p *Profile) Table() string {
	events := make([]Event, len(p.Events))
	copy(events, p.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Total > events[j].Total })

	var b strings.Builder
	fmt.Fprintf(&b, "profile %q at %s: wall %s, %d allocs, %d bytes\n",
		p.Label, p.Site, p.Wall, p.Mallocs, p.AllocBytes)
	fmt.Fprintf(&b, "%-20s %8s %14s %14s %12s\n", "Name", "Calls", "Total", "Avg", "Bytes")
	fmt.Fprintln(&b, strings.Repeat("-", 72))
	for _, e := range events {
		fmt.Fprintf(&b, "%-20s %8d %14s %14s %12d\n", e.Name, e.Calls, e.Total, e.Average(), e.Bytes)
	}
	return b.String()
}

// Recorder collects measurements for an open region.
// It is safe for concurrent use by the goroutines of one instrumented backend.
type Recorder struct {
	label  string
	site   string
	start  time.Time
	before runtime.MemStats

	mu     sync.Mutex
	index  map[string]int
	events []Event
}

// Start opens a region. Memory statistics are sampled now and again at Stop.
func Start(label string) *Recorder {
	r := &Recorder{
		label: label,
		index: make(map[string]int),
	}
	if _, file, line, ok := runtime.Caller(1); ok {
		r.site = fmt.Sprintf("%s:%d", file, line)
	}
	runtime.ReadMemStats(&r.before)
	r.start = time.Now()
	return r
}

// RecordOp adds one call of the named operation.
func (r *Recorder) RecordOp(name string, d time.Duration, bytes int64) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[name]
	if !ok {
		i = len(r.events)
		r.index[name] = i
		r.events = append(r.events, Event{Name: name})
	}
	e := &r.events[i]
	e.Calls++
	e.Total += d
	e.Bytes += bytes
}

// Stop closes the region and returns its profile.
func (r *Recorder) Stop() *Profile {
	wall := time.Since(r.start)
	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]Event, len(r.events))
	copy(events, r.events)

	return &Profile{
		Label:      r.label,
		Site:       r.site,
		StartedAt:  r.start,
		Wall:       wall,
		Mallocs:    after.Mallocs - r.before.Mallocs,
		AllocBytes: after.TotalAlloc - r.before.TotalAlloc,
		Events:     events,
	}
}
