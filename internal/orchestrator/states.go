// HomieHub - Roommate and Room Matching Engine
// Copyright 2026 Samhita K. (Samhita-kolluri)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Samhita-kolluri/homiehub-23

package orchestrator

// State is the orchestrator's position in the retraining state machine.
type State int32

const (
	StateMonitoring State = iota
	StateTriggered
	StateRetraining
	StateValidating
	StatePromoted
	StateRolledBack
)

var stateNames = [...]string{
	"MONITORING", "TRIGGERED", "RETRAINING", "VALIDATING", "PROMOTED", "ROLLED_BACK",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}
