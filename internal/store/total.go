package store

import "sync"

// totalStatus is the aggregate lifecycle: uninitialized before the first full
// scan, computing while a scan is in flight, ready once the cached sum is
// being kept incrementally consistent.
type totalStatus int

const (
	totalUninitialized totalStatus = iota
	totalComputing
	totalReady
)

// TotalValue is the cached running sum of price×quantity across all sellable
// items. It is owned by the ItemStore and handed to callers that need to read
// or adjust it; it is never package-level state. The cache lives only in
// memory and can be rebuilt from storage at any time via ItemStore.Recompute.
type TotalValue struct {
	mu     sync.Mutex
	status totalStatus
	sum    float64
}

func NewTotalValue() *TotalValue {
	return &TotalValue{}
}

// Value returns the cached total and whether it has been initialized. Callers
// must not display or rely on the total until ready is true.
func (t *TotalValue) Value() (total float64, ready bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sum, t.status == totalReady
}

// Add applies an incremental adjustment (positive or negative). Adjustments
// before the first full scan are dropped: the scan will observe the committed
// rows anyway.
func (t *TotalValue) Add(delta float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != totalReady {
		return
	}
	t.sum += delta
}

// Swap replaces one row's contribution: it removes prior and adds next.
func (t *TotalValue) Swap(prior, next float64) {
	t.Add(next - prior)
}

// Reset forces the total to exactly zero and marks it ready. Used by
// delete-all, after which zero is the true sum by definition.
func (t *TotalValue) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = totalReady
	t.sum = 0
}

// beginCompute transitions to computing. It returns false when a scan is
// already in flight so concurrent initializers do not double-scan.
func (t *TotalValue) beginCompute() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == totalComputing {
		return false
	}
	t.status = totalComputing
	return true
}

// finishCompute installs a freshly scanned sum and marks the total ready.
func (t *TotalValue) finishCompute(sum float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = totalReady
	t.sum = sum
}

// abortCompute rolls back to uninitialized after a failed scan.
func (t *TotalValue) abortCompute() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = totalUninitialized
}
