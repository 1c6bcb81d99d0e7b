// internal/domain/checkout/flow.go
package checkout

import "sync"

// State is a checkout flow state
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
)

// Flow tracks one session's checkout. A backend failure returns the flow to
// Idle with the form and LastError kept so the customer can resubmit.
// Success rests until the next submission.
type Flow struct {
	mu      sync.Mutex
	state   State
	form    Form
	lastErr string
	orderID string
}

func newFlow() *Flow {
	return &Flow{state: StateIdle}
}

// State returns the current state
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Form returns the last submitted form
func (f *Flow) Form() Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// LastError returns the message of the last failed submission
func (f *Flow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// OrderID returns the id of the last successful order
func (f *Flow) OrderID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

// begin moves a resting flow to Validating
func (f *Flow) begin(form Form) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateValidating || f.state == StateSubmitting {
		return ErrSubmitInProgress
	}
	f.state = StateValidating
	f.form = form
	f.lastErr = ""
	return nil
}

func (f *Flow) submitting() {
	f.mu.Lock()
	f.state = StateSubmitting
	f.mu.Unlock()
}

// reject returns to Idle keeping the form
func (f *Flow) reject(msg string) {
	f.mu.Lock()
	f.state = StateIdle
	f.lastErr = msg
	f.mu.Unlock()
}

// fail records a backend failure and returns to Idle, keeping the form
func (f *Flow) fail(msg string) {
	f.mu.Lock()
	f.state = StateIdle
	f.lastErr = msg
	f.mu.Unlock()
}

func (f *Flow) succeed(orderID string) {
	f.mu.Lock()
	f.state = StateSuccess
	f.orderID = orderID
	f.form = Form{}
	f.mu.Unlock()
}
