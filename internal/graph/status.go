package graph

import (
	"strings"
	"time"
)

// Pipeline depths. The funnel is 0..6: a bill that crossed over but has not
// yet passed the second chamber sits at depth 3 (second-chamber committee).
const (
	DepthFiled          = 0
	DepthInCommittee    = 1
	DepthPassedChamber  = 2
	DepthSecondChamber  = 3
	DepthPassedBoth     = 4
	DepthSentToGovernor = 5
	DepthTerminal       = 6
)

// depthForStatus maps a status to its pipeline depth.
var depthForStatus = map[BillStatus]int{
	StatusFiled:          DepthFiled,
	StatusInCommittee:    DepthInCommittee,
	StatusPassedChamber:  DepthPassedChamber,
	StatusPassedBoth:     DepthPassedBoth,
	StatusSentToGovernor: DepthSentToGovernor,
	StatusSigned:         DepthTerminal,
	StatusVetoed:         DepthTerminal,
}

// DeriveStatus replays a bill's action history through the status state
// machine and returns the final status and the highest pipeline depth
// reached. Transitions fire on case-insensitive substrings of the action
// text; depth never decreases.
func DeriveStatus(b *Bill) (BillStatus, int) {
	status := StatusFiled
	depth := DepthFiled
	passedOrigin := false

	bump := func(s BillStatus, d int) {
		if d > depth {
			depth = d
		}
		status = s
	}

	for _, entry := range b.Actions {
		action := strings.ToLower(entry.Action)
		switch {
		case strings.Contains(action, "total veto") || strings.Contains(action, "amendatory veto"):
			bump(StatusVetoed, DepthTerminal)
		case strings.Contains(action, "public act") || strings.Contains(action, "governor approved"):
			bump(StatusSigned, DepthTerminal)
		case strings.Contains(action, "sent to the governor"):
			bump(StatusSentToGovernor, DepthSentToGovernor)
		case strings.Contains(action, "third reading") && strings.Contains(action, "passed"):
			if passedOrigin {
				bump(StatusPassedBoth, DepthPassedBoth)
			} else {
				passedOrigin = true
				bump(StatusPassedChamber, DepthPassedChamber)
			}
		case strings.Contains(action, "assigned to") || strings.Contains(action, "referred to"):
			if passedOrigin {
				// Committee referral after crossover.
				bump(status, DepthSecondChamber)
			} else {
				bump(StatusInCommittee, DepthInCommittee)
			}
		}
	}
	return status, depth
}

// DisplayStatus applies the Dead heuristic on top of the derived status:
// a bill inactive longer than deadAfter that never reached a terminal state
// is shown as Dead. The numeric depth is unaffected.
func DisplayStatus(b *Bill, now time.Time, deadAfter time.Duration) BillStatus {
	if b.Status == StatusSigned || b.Status == StatusVetoed {
		return b.Status
	}
	if b.LastActionDate != nil && now.Sub(*b.LastActionDate) > deadAfter {
		return StatusDead
	}
	return b.Status
}
