// Package frame models a stack frame's layout relative to a frame
// pointer: where each parameter and local variable lives once the IR's
// named operands are lowered toward a concrete calling convention.
package frame

import "fmt"

// WordSize is the size in bytes of one stack slot (a simplified
// 64-bit System V style layout: params at positive offsets, locals at
// negative offsets, one word each).
const WordSize = 8

// Layout is one function's activation record. Params and locals are
// added in declaration order; Seal assigns their final offsets and
// freezes the layout so later mistakes (adding a slot after code has
// already been generated against fixed offsets) fail loudly instead of
// silently shifting every other slot.
type Layout struct {
	Name   string
	Params []string
	Locals []string

	paramOffset map[string]int
	localOffset map[string]int

	sealed bool
}

// New returns an empty, unsealed layout for the named function.
func New(name string) *Layout {
	return &Layout{Name: name}
}

// AddParam registers a parameter slot. It is an error to call this
// after Seal, to reuse a parameter name, or to reuse a name already
// registered as a local.
func (l *Layout) AddParam(name string) error {
	if l.sealed {
		return fmt.Errorf("frame: %s: layout is sealed", l.Name)
	}
	for _, p := range l.Params {
		if p == name {
			return fmt.Errorf("frame: %s: duplicate parameter %q", l.Name, name)
		}
	}
	for _, v := range l.Locals {
		if v == name {
			return fmt.Errorf("frame: %s: %q already used as a local", l.Name, name)
		}
	}
	l.Params = append(l.Params, name)
	return nil
}

// AddLocal registers a local variable slot, subject to the same
// duplicate and sealed-layout checks as AddParam.
func (l *Layout) AddLocal(name string) error {
	if l.sealed {
		return fmt.Errorf("frame: %s: layout is sealed", l.Name)
	}
	for _, v := range l.Locals {
		if v == name {
			return fmt.Errorf("frame: %s: duplicate local %q", l.Name, name)
		}
	}
	for _, p := range l.Params {
		if p == name {
			return fmt.Errorf("frame: %s: %q already used as a parameter", l.Name, name)
		}
	}
	l.Locals = append(l.Locals, name)
	return nil
}

// Seal assigns offsets to every registered param and local and freezes
// the layout against further additions. Params get +8, +16, +24, ...
// in declaration order; locals get -8, -16, -24, ....
func (l *Layout) Seal() error {
	if l.sealed {
		return fmt.Errorf("frame: %s: layout already sealed", l.Name)
	}
	l.paramOffset = make(map[string]int, len(l.Params))
	off := WordSize
	for _, p := range l.Params {
		l.paramOffset[p] = off
		off += WordSize
	}

	l.localOffset = make(map[string]int, len(l.Locals))
	off = -WordSize
	for _, v := range l.Locals {
		l.localOffset[v] = off
		off -= WordSize
	}

	l.sealed = true
	return nil
}

// Offset returns the frame-pointer-relative offset of name, and
// whether it was found. Seal must have run first; querying an
// unsealed layout always reports not-found.
func (l *Layout) Offset(name string) (int, bool) {
	if off, ok := l.paramOffset[name]; ok {
		return off, true
	}
	if off, ok := l.localOffset[name]; ok {
		return off, true
	}
	return 0, false
}

// Size returns the number of bytes the local-variable region occupies.
// It panics if called before Seal, since the region size is only
// meaningful once every local has a final offset.
func (l *Layout) Size() int {
	if !l.sealed {
		panic("frame: " + l.Name + ": Size called before Seal")
	}
	return len(l.Locals) * WordSize
}

// Sealed reports whether Seal has run.
func (l *Layout) Sealed() bool { return l.sealed }
