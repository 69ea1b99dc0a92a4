// Package x86trace is the secondary diagnostic path described for the
// core: it observes CpuState between dispatch_one() calls and must never
// mutate it. A Recorder keeps a bounded ring of textual dumps and logs
// each one through the standard logger.
package x86trace

import (
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Dumper is satisfied by x86core.CpuState; kept narrow so this package
// never imports the core and never gets a write path into it.
type Dumper interface {
	DumpedRegFlags() string
}

// Recorder accumulates a bounded history of state dumps, guarded by a
// mutex since the embedder's diagnostic path may poll concurrently with
// the core's own goroutine.
type Recorder struct {
	mu      sync.Mutex
	history []string
	cap     int
	group   singleflight.Group
	Logger  *log.Logger
}

// NewRecorder creates a Recorder retaining at most capacity dumps.
func NewRecorder(capacity int) *Recorder {
	return &Recorder{cap: capacity, Logger: log.Default()}
}

// Snapshot records the current dump of s. Concurrent callers racing on
// the same instruction boundary (identified by key) coalesce into a
// single DumpedRegFlags call via singleflight.
func (r *Recorder) Snapshot(key string, s Dumper) string {
	v, _, _ := r.group.Do(key, func() (interface{}, error) {
		dump := s.DumpedRegFlags()
		r.mu.Lock()
		r.history = append(r.history, dump)
		if r.cap > 0 && len(r.history) > r.cap {
			r.history = r.history[len(r.history)-r.cap:]
		}
		r.mu.Unlock()
		r.Logger.Print(dump)
		return dump, nil
	})
	return v.(string)
}

// History returns a copy of the retained dumps, oldest first.
func (r *Recorder) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}

// Render joins the retained history into a single newline-separated
// block, for display in a debugger scrollback.
func (r *Recorder) Render() string {
	return strings.Join(r.History(), "\n")
}
