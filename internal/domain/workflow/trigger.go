package workflow

// Trigger is an action that moves an application between states
type Trigger string

const (
	TriggerApprove Trigger = "approve"
	TriggerReject  Trigger = "reject"
	TriggerCancel  Trigger = "cancel"
)

func (t Trigger) String() string {
	return string(t)
}
