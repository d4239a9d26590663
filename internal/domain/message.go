package domain

// Message types on the command channel.
const (
	MsgExecuteCommand = "execute-command"
	MsgCommandResult  = "command-result"
	MsgCommandError   = "command-error"
)

// Request is one inbound command invocation from a controller.
type Request struct {
	Type    string         `json:"type"`
	ID      string         `json:"id"`
	Command string         `json:"command"`
	Params  map[string]any `json:"params"`

	// Routing metadata, filled in by the receiving channel.
	Channel  string `json:"-"`
	ClientID string `json:"-"`
}

// Response is the outbound result or error envelope, correlated to a
// request by ID.
type Response struct {
	Type      string         `json:"type"`
	ID        string         `json:"id"`
	Command   string         `json:"command"`
	Result    map[string]any `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp string         `json:"timestamp"`

	Channel  string `json:"-"`
	ClientID string `json:"-"`
}
