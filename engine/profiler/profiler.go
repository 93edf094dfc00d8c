package profiler

import (
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Phase is one step of the engine frame.
type Phase int

const (
	PhaseUpdate Phase = iota
	PhaseOffscreen
	PhaseFrame
	PhaseGUI

	phaseCount
)

// String returns the lowercase phase name used in log lines.
func (ph Phase) String() string {
	switch ph {
	case PhaseUpdate:
		return "update"
	case PhaseOffscreen:
		return "offscreen"
	case PhaseFrame:
		return "frame"
	case PhaseGUI:
		return "gui"
	default:
		return fmt.Sprintf("phase(%d)", int(ph))
	}
}

// PassReport is the per-frame average of a render pass over one interval.
type PassReport struct {
	Name    string
	Queued  float64
	Skipped float64
}

// Report is the summary of one profiling interval.
type Report struct {
	FPS float64
	// Phases is the average duration of each phase per frame, indexed by Phase.
	Phases [phaseCount]time.Duration
	// Passes lists the passes in the order they first reported.
	Passes []PassReport
}

type passTotals struct {
	frames  int
	queued  int
	skipped int
}

// Profiler tracks frame rate, memory statistics, per-phase frame timings and render pass
// queue counts. Outputs stats to the log at a configurable interval.
type Profiler struct {
	mu *sync.Mutex

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	phases    [phaseCount]time.Duration
	passes    map[string]*passTotals
	passOrder []string

	now    func() time.Time
	last   Report
	silent bool
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		updateInterval: time.Second,
		passes:         make(map[string]*passTotals),
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Measure runs fn and adds its duration to a phase of the current frame.
//
// Parameters:
//   - ph: the phase fn belongs to
//   - fn: the work to time
func (p *Profiler) Measure(ph Phase, fn func()) {
	start := p.now()
	fn()
	p.AddPhase(ph, p.now().Sub(start))
}

// AddPhase adds a duration to a phase of the current frame.
func (p *Profiler) AddPhase(ph Phase, d time.Duration) {
	if ph < 0 || ph >= phaseCount {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phases[ph] += d
}

// RecordPass adds the queue counts of one pass frame.
//
// Parameters:
//   - name: the pass name
//   - queued: components inserted into the render queue
//   - skipped: components dropped by the distance cutoff
func (p *Profiler) RecordPass(name string, queued, skipped int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.passes[name]
	if !ok {
		t = &passTotals{}
		p.passes[name] = t
		p.passOrder = append(p.passOrder, name)
	}
	t.frames++
	t.queued += queued
	t.skipped += skipped
}

// Last returns the report of the last completed interval.
func (p *Profiler) Last() Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory,
// average phase timings and the average queued/skipped counts of every pass.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	r := Report{FPS: float64(p.frameCount) / elapsed.Seconds()}
	for i, d := range p.phases {
		r.Phases[i] = d / time.Duration(p.frameCount)
	}
	for _, name := range p.passOrder {
		t := p.passes[name]
		r.Passes = append(r.Passes, PassReport{
			Name:    name,
			Queued:  float64(t.queued) / float64(t.frames),
			Skipped: float64(t.skipped) / float64(t.frames),
		})
	}

	if !p.silent {
		p.logMemory(r.FPS, elapsed)
		log.Printf("[Profiler] %s", formatReport(r))
	}

	p.last = r
	p.frameCount = 0
	p.lastTime = currentTime
	p.phases = [phaseCount]time.Duration{}
	clear(p.passes)
	p.passOrder = p.passOrder[:0]
	return true
}

func (p *Profiler) logMemory(fps float64, elapsed time.Duration) {
	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		fps, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}

func formatReport(r Report) string {
	var b strings.Builder
	for i, d := range r.Phases {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s: %.2f ms", Phase(i), float64(d.Microseconds())/1000)
	}
	for _, pr := range r.Passes {
		fmt.Fprintf(&b, " | %s: queued %.1f skipped %.1f", pr.Name, pr.Queued, pr.Skipped)
	}
	return b.String()
}
