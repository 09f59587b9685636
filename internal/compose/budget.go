// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

// Budget is a monotonic frame counter bounded by a maximum. Each Compose
// call owns a fresh Budget.
type Budget struct {
	max  int
	used int
}

// NewBudget returns a Budget allowing max frames. Values below 1 become 1.
func NewBudget(max int) *Budget {
	if max < 1 {
		max = 1
	}
	return &Budget{max: max}
}

// Take reserves one frame. It reports false once the maximum is reached.
func (b *Budget) Take() bool {
	if b.used >= b.max {
		return false
	}
	b.used++
	return true
}

// Used returns the number of frames taken.
func (b *Budget) Used() int { return b.used }

// Max returns the frame limit.
func (b *Budget) Max() int { return b.max }

// Remaining returns how many frames can still be taken.
func (b *Budget) Remaining() int { return b.max - b.used }

// Exhausted reports whether no frames remain.
func (b *Budget) Exhausted() bool { return b.used >= b.max }

// State is a phase of frame emission.
type State int

const (
	StateIdle State = iota
	StateTitleEmitted
	StateOverviewEmitted
	StateSectionLoop
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTitleEmitted:
		return "title-emitted"
	case StateOverviewEmitted:
		return "overview-emitted"
	case StateSectionLoop:
		return "section-loop"
	case StateDone:
		return "done"
	}
	return "unknown"
}
