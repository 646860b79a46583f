package workflow

// State is the status of a business trip application.
type State string

const (
	StatePending   State = "pending"
	StateApproved  State = "approved"
	StateRejected  State = "rejected"
	StateCancelled State = "cancelled"
)

var validStates = map[State]bool{
	StatePending:   true,
	StateApproved:  true,
	StateRejected:  true,
	StateCancelled: true,
}

var terminalStates = map[State]bool{
	StateRejected:  true,
	StateCancelled: true,
}

// labels are the Japanese status names shown to applicants.
var labels = map[State]string{
	StatePending:   "待機中",
	StateApproved:  "承認済み",
	StateRejected:  "却下",
	StateCancelled: "キャンセル",
}

// IsTerminal returns true if no further transitions are allowed from the state
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known application status
func (s State) IsValid() bool {
	return validStates[s]
}

// Label returns the display name of the state, or the raw value for unknown states.
func (s State) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}
