package progress

// The remote service reports no fractional completion while processing, so
// the overall bar is synthetic: upload bytes map onto the first half, then a
// slow creep covers the processing phase until a terminal status lands.
const (
	uploadCeiling = 50 // upload phase ends at the halfway mark
	pollCeiling   = 90 // processing creep stops here until terminal
	pollIncrement = 1  // per poll tick
)

// Estimator produces a bounded, monotonically non-decreasing completion
// percentage for one job. Not safe for concurrent use; the owning session
// serializes access.
type Estimator struct {
	current float64
}

// Current returns the latest estimate in [0,100].
func (e *Estimator) Current() float64 {
	return e.current
}

// Upload folds a fractional upload completion in [0,1] into the estimate.
func (e *Estimator) Upload(fraction float64) float64 {
	p := fraction * uploadCeiling
	if p > uploadCeiling {
		p = uploadCeiling
	}
	return e.advance(p)
}

// Tick bumps the estimate for one poll cycle, capped below 100 so the bar
// never claims completion before the service does.
func (e *Estimator) Tick() float64 {
	p := e.current + pollIncrement
	if p > pollCeiling {
		p = pollCeiling
	}
	return e.advance(p)
}

// Finish forces the estimate to 100 on terminal success.
func (e *Estimator) Finish() float64 {
	return e.advance(100)
}

// advance enforces the invariant: never decreasing, never above 100.
func (e *Estimator) advance(p float64) float64 {
	if p > 100 {
		p = 100
	}
	if p > e.current {
		e.current = p
	}
	return e.current
}
