package av

import (
	"sync"
	"time"
)

// Runner is the shared lifecycle base for every component that owns one
// goroutine: the sync loop and the three output drivers embed it. The zero
// value is ready to use.
type Runner struct {
	lock    sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}
}

// Start launches loop on a new goroutine. The loop must return promptly
// once quit is closed. Start reports false while a previous loop is still
// alive, including one draining after a timed-out Stop.
func (r *Runner) Start(loop func(quit <-chan struct{})) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.done != nil {
		select {
		case <-r.done:
			r.running = false
		default:
			return false
		}
	}
	r.quit = make(chan struct{})
	r.done = make(chan struct{})
	r.running = true
	go func(quit <-chan struct{}, done chan struct{}) {
		defer close(done)
		loop(quit)
	}(r.quit, r.done)
	return true
}

// Stop closes the quit channel and waits up to timeout for the loop to
// drain. Stopping a runner that is not running succeeds immediately; false
// means the loop failed to exit within the bound and is still draining.
func (r *Runner) Stop(timeout time.Duration) bool {
	r.lock.Lock()
	if !r.running {
		r.lock.Unlock()
		return true
	}
	r.running = false
	close(r.quit)
	done := r.done
	r.lock.Unlock()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// IsRunning reports whether the loop goroutine is alive. A loop that
// returned on its own counts as stopped.
func (r *Runner) IsRunning() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.running {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}
