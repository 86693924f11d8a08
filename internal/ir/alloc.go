package ir

import "fmt"

// TempAllocator hands out fresh temporaries during lowering and lets
// a caller return them to a free list for reuse via Release. Reuse is
// LIFO — the most recently released temp is the next one handed back
// out. The lowering stage in lower.go never calls Release, so every
// temporary within one lowered function is fresh.
type TempAllocator struct {
	nextID int
	free   []string
	freeSet map[string]bool
}

// NewTempAllocator returns an allocator starting at t0.
func NewTempAllocator() *TempAllocator {
	return &TempAllocator{freeSet: make(map[string]bool)}
}

// New returns a fresh or recycled temporary.
func (a *TempAllocator) New() Temp {
	if n := len(a.free); n > 0 {
		name := a.free[n-1]
		a.free = a.free[:n-1]
		delete(a.freeSet, name)
		return Temp{Name: name}
	}
	name := fmt.Sprintf("t%d", a.nextID)
	a.nextID++
	return Temp{Name: name}
}

// Release returns t to the free list for reuse. Releasing the same
// temp twice without an intervening New is a lowering bug, so Release
// panics rather than silently corrupting the free list.
func (a *TempAllocator) Release(t Temp) {
	if a.freeSet[t.Name] {
		panic("ir: temp " + t.Name + " released twice")
	}
	a.freeSet[t.Name] = true
	a.free = append(a.free, t.Name)
}

// Reset clears all allocator state, for reuse across functions.
func (a *TempAllocator) Reset() {
	a.nextID = 0
	a.free = nil
	a.freeSet = make(map[string]bool)
}

// LabelAllocator hands out fresh, monotonically increasing labels,
// optionally suffixed with a human-readable hint (e.g. "L3_end").
type LabelAllocator struct {
	nextID int
}

// NewLabelAllocator returns an allocator starting at L0.
func NewLabelAllocator() *LabelAllocator {
	return &LabelAllocator{}
}

// New returns a fresh label, named "L<n>" or "L<n>_<suffix>" when a
// non-empty suffix is given.
func (a *LabelAllocator) New(suffix string) Label {
	id := a.nextID
	a.nextID++
	if suffix == "" {
		return Label{Name: fmt.Sprintf("L%d", id)}
	}
	return Label{Name: fmt.Sprintf("L%d_%s", id, suffix)}
}

// Reset clears allocator state, for reuse across functions.
func (a *LabelAllocator) Reset() {
	a.nextID = 0
}
