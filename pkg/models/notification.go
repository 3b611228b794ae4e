package models

// Severity is the visual channel a notification is shown on. It does not
// imply success or failure of the underlying operation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a short, non-blocking message for the user.
type Notification struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

// Literal notification messages.
const (
	MsgTaskAdded   = "Todo added successfully"
	MsgTaskUpdated = "Todo updated successfully"
	MsgTaskRemoved = "Todo removed successfully"
	MsgAllCleared  = "All todos cleared"
)
