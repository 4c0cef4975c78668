package engine

import (
	"fmt"
	"strings"
)

type PurchaseRefusal string

const (
	RefusalUnknown      PurchaseRefusal = "unknown_upgrade"
	RefusalOwned        PurchaseRefusal = "already_owned"
	RefusalPrerequisite PurchaseRefusal = "missing_prerequisite"
	RefusalFunds        PurchaseRefusal = "insufficient_xp"
)

// PurchaseError explains why an upgrade cannot be bought right now.
// PurchaseUpgrade itself reports refusals as false; CheckPurchase returns this.
type PurchaseError struct {
	UpgradeID string
	Reason    PurchaseRefusal
	Missing   []string // prerequisites not yet owned
	Cost      int
	Available int
}

func (e *PurchaseError) Error() string {
	switch e.Reason {
	case RefusalUnknown:
		return fmt.Sprintf("upgrade %q does not exist", e.UpgradeID)
	case RefusalOwned:
		return fmt.Sprintf("upgrade %q is already owned", e.UpgradeID)
	case RefusalPrerequisite:
		return fmt.Sprintf("upgrade %q requires %s", e.UpgradeID, strings.Join(e.Missing, ", "))
	case RefusalFunds:
		return fmt.Sprintf("upgrade %q costs %d XP (have %d)", e.UpgradeID, e.Cost, e.Available)
	default:
		return fmt.Sprintf("upgrade %q cannot be purchased", e.UpgradeID)
	}
}

type ClaimRefusal string

const (
	ClaimUnknown    ClaimRefusal = "unknown_mission"
	ClaimClaimed    ClaimRefusal = "already_claimed"
	ClaimIncomplete ClaimRefusal = "incomplete"
)

// ClaimError explains why a mission reward cannot be claimed.
type ClaimError struct {
	MissionID string
	Reason    ClaimRefusal
	Progress  int
	Target    int
}

func (e *ClaimError) Error() string {
	switch e.Reason {
	case ClaimUnknown:
		return fmt.Sprintf("mission %q is not active today", e.MissionID)
	case ClaimClaimed:
		return fmt.Sprintf("mission %q was already claimed", e.MissionID)
	case ClaimIncomplete:
		return fmt.Sprintf("mission %q is at %d/%d", e.MissionID, e.Progress, e.Target)
	default:
		return fmt.Sprintf("mission %q cannot be claimed", e.MissionID)
	}
}
