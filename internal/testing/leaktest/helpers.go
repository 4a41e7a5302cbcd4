package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// DefaultSettleTimeout is how long Check waits for goroutines to exit
const DefaultSettleTimeout = 2 * time.Second

const pollInterval = 10 * time.Millisecond

// GoroutineChecker detects goroutines left running by the code under test
type GoroutineChecker struct {
	t       testing.TB
	before  int
	timeout time.Duration
}

// NewGoroutineChecker records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	return &GoroutineChecker{
		t:       t,
		before:  settledCount(),
		timeout: DefaultSettleTimeout,
	}
}

// WithTimeout changes how long Check waits for stragglers
func (g *GoroutineChecker) WithTimeout(d time.Duration) *GoroutineChecker {
	g.timeout = d
	return g
}

// Check fails the test if more than tolerance goroutines are still running
// once the timeout expires. Goroutines that exit during the wait are not
// counted, so shutdown paths that finish asynchronously pass.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	limit := g.before + tolerance
	deadline := time.Now().Add(g.timeout)
	for {
		now := runtime.NumGoroutine()
		if now <= limit {
			return
		}
		if time.Now().After(deadline) {
			g.t.Errorf("goroutine leak: before=%d after=%d tolerance=%d", g.before, now, tolerance)
			return
		}
		time.Sleep(pollInterval)
	}
}

// VerifyNone runs fn and fails the test if it leaves goroutines behind
func VerifyNone(t testing.TB, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

// settledCount waits briefly for goroutines started by earlier tests to exit
// and returns the lowest count seen
func settledCount() int {
	lowest := runtime.NumGoroutine()
	for i := 0; i < 5; i++ {
		runtime.Gosched()
		time.Sleep(pollInterval)
		if n := runtime.NumGoroutine(); n < lowest {
			lowest = n
		}
	}
	return lowest
}
