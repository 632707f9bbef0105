package harness

// Trace event types.
const (
	EventOp           = "op"
	EventNotification = "notification"
)

// OutcomeOK marks a step that returned no error.
const OutcomeOK = "ok"

// TraceEvent is one entry of a scenario trace.
type TraceEvent struct {
	Seq     int64          `json:"seq"`
	Type    string         `json:"type"` // "op" or "notification"
	Op      string         `json:"op,omitempty"`
	Args    map[string]any `json:"args,omitempty"`
	Outcome string         `json:"outcome,omitempty"` // "ok" or an error code
	Message string         `json:"message,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains ops and notifications in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// NotificationCount returns the number of notification events in the trace.
func (r *Result) NotificationCount() int {
	n := 0
	for _, e := range r.Trace {
		if e.Type == EventNotification {
			n++
		}
	}
	return n
}
