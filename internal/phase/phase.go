// Package phase defines the coarse handshake-phase enumeration the
// scheduler uses to gate fuzzing eligibility, adapted from the teacher's
// internal/state package: where that package owned an active
// probing/announcing state machine driven by timers, this one is a
// read-only classification of state the host QUIC stack already owns
// (spec.md §4.5's "State machine" note: "this is not a state machine the
// core owns").
package phase

// Handshake is one of the four coarse buckets the scheduler reasons
// about. The zero value is Initial.
type Handshake int

const (
	// Initial covers everything before the host stack's "almost ready"
	// signal: Initial and Handshake packet number spaces, pre-confirmation.
	Initial Handshake = iota
	// NotReady covers the gap between "almost ready" and fully
	// confirmed — 0.5-RTT data has started flowing but confirmation
	// (RFC 9001 §4.1.2) has not happened yet.
	NotReady
	// Ready is a fully confirmed, 1-RTT-capable connection.
	Ready
	// Closing covers draining and closing states; it absorbs all later
	// states and is terminal for the purposes of phase comparison.
	Closing
)

// String renders the phase the way log lines and test failure messages
// want to see it.
func (h Handshake) String() string {
	switch h {
	case Initial:
		return "initial"
	case NotReady:
		return "not_ready"
	case Ready:
		return "ready"
	case Closing:
		return "closing"
	default:
		return "unknown"
	}
}

// All enumerates every phase in ascending order, for stats tables and
// test loops that need to range over all four.
func All() []Handshake {
	return []Handshake{Initial, NotReady, Ready, Closing}
}

// Count is the number of distinct phases; stats tables size fixed arrays
// with it instead of a map so a hot-path increment is a slice index.
const Count = int(Closing) + 1
