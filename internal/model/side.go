package model

// Side is the half of the frame a blob center falls into.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// ParseSide is the inverse of String. Unknown values map to SideNone.
func ParseSide(s string) Side {
	switch s {
	case "left":
		return SideLeft
	case "right":
		return SideRight
	default:
		return SideNone
	}
}

// Tally holds the per-side detection counters of one run.
type Tally struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Total returns the number of frames that were classified.
func (t Tally) Total() int {
	return t.Left + t.Right
}

// Winner returns SideLeft only when left strictly leads; a tie goes to the right.
func (t Tally) Winner() Side {
	if t.Left > t.Right {
		return SideLeft
	}
	return SideRight
}
