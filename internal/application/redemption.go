package application

import (
	"fmt"
	"strings"
	"time"
)

// RedemptionState is a step of the gate scan flow.
type RedemptionState string

const (
	StateIdle              RedemptionState = "idle"
	StateScanning          RedemptionState = "scanning"
	StateDecoded           RedemptionState = "decoded"
	StateExpired           RedemptionState = "expired"
	StateAwaitingDirection RedemptionState = "awaiting_direction"
	StateRecorded          RedemptionState = "recorded"
)

// Direction is the guard's choice once a pass is accepted.
type Direction string

const (
	DirectionTimeIn  Direction = "TIME_IN"
	DirectionTimeOut Direction = "TIME_OUT"
)

// Directions lists the choices offered for a valid pass.
func Directions() []Direction {
	return []Direction{DirectionTimeIn, DirectionTimeOut}
}

// ParseDirection accepts TIME_IN / TIME_OUT in any case, with or without the separator.
func ParseDirection(value string) (Direction, bool) {
	normalized := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToUpper(strings.TrimSpace(value)))
	switch normalized {
	case "TIMEIN", "IN":
		return DirectionTimeIn, true
	case "TIMEOUT", "OUT":
		return DirectionTimeOut, true
	}
	return "", false
}

// Redemption tracks one scan of one pass. It performs no I/O; PassService drives it
// and performs the single write once the direction is chosen.
type Redemption struct {
	state     RedemptionState
	pass      PassPayload
	direction Direction
}

// NewRedemption starts in StateIdle.
func NewRedemption() *Redemption {
	return &Redemption{state: StateIdle}
}

// State returns the current step.
func (r *Redemption) State() RedemptionState { return r.state }

// Pass returns the decoded payload. It is zero before StateDecoded.
func (r *Redemption) Pass() PassPayload { return r.pass }

// Direction returns the recorded direction.
func (r *Redemption) Direction() Direction { return r.direction }

// StartScan moves Idle to Scanning.
func (r *Redemption) StartScan() error {
	return r.move(StateIdle, StateScanning)
}

// Decode parses the scanned text and checks its signature. On failure the flow
// returns to Idle so the guard can scan again.
func (r *Redemption) Decode(raw string, signer *PassSigner) error {
	if r.state != StateScanning {
		return r.invalid(StateDecoded)
	}
	pass, err := ParsePass(raw)
	if err == nil {
		err = signer.Verify(pass)
	}
	if err != nil {
		r.state = StateIdle
		return err
	}
	r.pass = pass
	r.state = StateDecoded
	return nil
}

// CheckExpiry moves Decoded to Expired or AwaitingDirection.
func (r *Redemption) CheckExpiry(now time.Time) error {
	if r.state != StateDecoded {
		return r.invalid(StateAwaitingDirection)
	}
	if r.pass.Expired(now) {
		r.state = StateExpired
		return ErrPassExpired
	}
	r.state = StateAwaitingDirection
	return nil
}

// Choose validates the direction while awaiting it. The state only advances on MarkRecorded.
func (r *Redemption) Choose(direction Direction) error {
	if r.state != StateAwaitingDirection {
		return r.invalid(StateRecorded)
	}
	if direction != DirectionTimeIn && direction != DirectionTimeOut {
		return &ValidationError{FieldErrors: map[string]string{"direction": "direction must be TIME_IN or TIME_OUT"}}
	}
	r.direction = direction
	return nil
}

// MarkRecorded completes the flow after the write succeeded.
func (r *Redemption) MarkRecorded() error {
	if r.state != StateAwaitingDirection || r.direction == "" {
		return r.invalid(StateRecorded)
	}
	r.state = StateRecorded
	return nil
}

// Cancel abandons the flow from any step before Recorded. Over HTTP each
// request builds a fresh Redemption, so a client cancels by not calling
// redeem; Cancel serves callers that hold one Redemption across steps.
func (r *Redemption) Cancel() {
	if r.state != StateRecorded {
		r.state = StateIdle
		r.pass = PassPayload{}
		r.direction = ""
	}
}

func (r *Redemption) move(from, to RedemptionState) error {
	if r.state != from {
		return r.invalid(to)
	}
	r.state = to
	return nil
}

func (r *Redemption) invalid(to RedemptionState) error {
	return fmt.Errorf("redemption: cannot move from %s to %s", r.state, to)
}
