package pdfexport

// State is the phase of an export session.
type State int

// Export phases, in the order a successful export visits them. Rendering
// through Committed repeat once per page.
const (
	Idle State = iota
	Rendering
	Capturing
	ExtractingText
	Committed
	Finalizing
	Done
	Failed
)

var stateNames = [...]string{
	Idle:           "idle",
	Rendering:      "rendering",
	Capturing:      "capturing",
	ExtractingText: "extracting-text",
	Committed:      "committed",
	Finalizing:     "finalizing",
	Done:           "done",
	Failed:         "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// MarshalText renders the state by name, so sessions serialize readably.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// next lists the legal transitions.
var next = map[State][]State{
	Idle:           {Rendering, Finalizing, Failed},
	Rendering:      {Capturing, Failed},
	Capturing:      {ExtractingText, Failed},
	ExtractingText: {Committed, Failed},
	Committed:      {Rendering, Finalizing, Failed},
	Finalizing:     {Done, Failed},
}

// CanTransition reports whether from -> to is a legal step.
func CanTransition(from, to State) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Progress is a snapshot of an export.
type Progress struct {
	State     State `json:"state"`
	Page      int   `json:"page"` // 1-based index of the page being worked on, 0 outside pages
	Completed int   `json:"completed"`
	Total     int   `json:"total"`
}

// Fraction is Completed/Total, or 0 for an empty document until it is done.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		if p.State == Done {
			return 1
		}
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}
