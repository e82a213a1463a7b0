package risk

import (
	"errors"
	"fmt"
)

// ViolationCode classifies why the engine rejected a transition.
type ViolationCode string

const (
	// ViolationPhase: the action is not legal in the current phase.
	ViolationPhase ViolationCode = "phase"
	// ViolationTurn: the acting player is not the current player.
	ViolationTurn ViolationCode = "turn"
	// ViolationOwnership: a territory is owned by the wrong player.
	ViolationOwnership ViolationCode = "ownership"
	// ViolationAdjacency: the territories are not adjacent or connected.
	ViolationAdjacency ViolationCode = "adjacency"
	// ViolationQuantity: a troop or dice count is out of range.
	ViolationQuantity ViolationCode = "quantity"
	// ViolationResource: missing cards, troops, pact, or other resource.
	ViolationResource ViolationCode = "resource"
	// ViolationAntiCheat: a client-reported result failed server checks.
	ViolationAntiCheat ViolationCode = "anticheat"
)

// RuleError is returned for every rule rejection. The state passed to
// the failing transition is unchanged.
type RuleError struct {
	Code    ViolationCode
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRuleError reports whether err is a rule rejection, and returns it.
func IsRuleError(err error) (*RuleError, bool) {
	var re *RuleError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

func phaseErr(format string, args ...any) *RuleError {
	return &RuleError{Code: ViolationPhase, Message: fmt.Sprintf(format, args...)}
}

func turnErr(format string, args ...any) *RuleError {
	return &RuleError{Code: ViolationTurn, Message: fmt.Sprintf(format, args...)}
}

func ownershipErr(format string, args ...any) *RuleError {
	return &RuleError{Code: ViolationOwnership, Message: fmt.Sprintf(format, args...)}
}

func adjacencyErr(format string, args ...any) *RuleError {
	return &RuleError{Code: ViolationAdjacency, Message: fmt.Sprintf(format, args...)}
}

func quantityErr(format string, args ...any) *RuleError {
	return &RuleError{Code: ViolationQuantity, Message: fmt.Sprintf(format, args...)}
}

func resourceErr(format string, args ...any) *RuleError {
	return &RuleError{Code: ViolationResource, Message: fmt.Sprintf(format, args...)}
}

func antiCheatErr(format string, args ...any) *RuleError {
	return &RuleError{Code: ViolationAntiCheat, Message: fmt.Sprintf(format, args...)}
}
