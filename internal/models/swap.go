package models

import (
	"time"
)

// Swap statuses. Rejected, completed and cancelled are terminal.
const (
	SwapStatusPending   = "pending"
	SwapStatusAccepted  = "accepted"
	SwapStatusRejected  = "rejected"
	SwapStatusCompleted = "completed"
	SwapStatusCancelled = "cancelled"
)

// Swap actions accepted by PATCH /api/swaps/:id.
const (
	SwapActionApprove  = "approve"
	SwapActionReject   = "reject"
	SwapActionCancel   = "cancel"
	SwapActionComplete = "complete"
)

// Swap represents a proposed exchange: a requester asks the owner of an item
// to trade, optionally offering one of their own items. Terminal records stay
// queryable forever (soft-delete policy), so both parties' histories survive.
type Swap struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RequesterID   uint      `gorm:"not null;index" json:"requester_id"`
	Requester     *User     `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	OwnerID       uint      `gorm:"not null;index" json:"owner_id"`
	Owner         *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	ItemID        uint      `gorm:"not null;index" json:"item_id"`
	Item          *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	OfferedItemID *uint     `gorm:"index" json:"offered_item_id,omitempty"`
	OfferedItem   *Item     `gorm:"foreignKey:OfferedItemID" json:"offered_item,omitempty"`
	PointsOffered int       `gorm:"not null;default:0" json:"points_offered"`
	Status        string    `gorm:"not null;default:pending;index" json:"status"`
	Message       string    `gorm:"type:text" json:"message"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsParty reports whether userID is the swap's owner or requester.
func (s *Swap) IsParty(userID uint) bool {
	return s.OwnerID == userID || s.RequesterID == userID
}

// Terminal reports whether the swap is in a terminal state.
func (s *Swap) Terminal() bool {
	switch s.Status {
	case SwapStatusRejected, SwapStatusCompleted, SwapStatusCancelled:
		return true
	}
	return false
}

// transitionRule describes one row of the swap transition table: which state
// the swap must be in, which state it moves to, and which party may act.
type transitionRule struct {
	From         string
	To           string
	OwnerMay     bool
	RequesterMay bool
	RoleErr      string
	StateErr     string
}

var swapTransitions = map[string]transitionRule{
	SwapActionApprove: {
		From: SwapStatusPending, To: SwapStatusAccepted,
		OwnerMay: true,
		RoleErr:  "Only the owner can approve swaps",
		StateErr: "Can only approve pending swaps",
	},
	SwapActionReject: {
		From: SwapStatusPending, To: SwapStatusRejected,
		OwnerMay: true,
		RoleErr:  "Only the owner can reject swaps",
		StateErr: "Can only reject pending swaps",
	},
	SwapActionCancel: {
		From: SwapStatusPending, To: SwapStatusCancelled,
		RequesterMay: true,
		RoleErr:      "Only the requester can cancel swaps",
		StateErr:     "Can only cancel pending swaps",
	},
	SwapActionComplete: {
		From: SwapStatusAccepted, To: SwapStatusCompleted,
		OwnerMay: true, RequesterMay: true,
		RoleErr:  "Only the owner or requester can complete swaps",
		StateErr: "Can only complete accepted swaps",
	},
}

// ValidSwapAction reports whether action is a known swap action.
func ValidSwapAction(action string) bool {
	_, ok := swapTransitions[action]
	return ok
}

// Transition validates action against the transition table for the given
// actor and returns the resulting status. Permission failures (wrong or no
// role) and state-precondition failures are distinct error kinds so handlers
// can map them to 403 and 400 respectively. The swap itself is not mutated.
func (s *Swap) Transition(action string, actorID uint) (string, error) {
	rule, ok := swapTransitions[action]
	if !ok {
		return "", NewValidationError("Invalid action")
	}
	if !s.IsParty(actorID) {
		return "", NewForbiddenError("You are not a party to this swap")
	}

	allowed := (rule.OwnerMay && actorID == s.OwnerID) ||
		(rule.RequesterMay && actorID == s.RequesterID)
	if !allowed {
		return "", NewForbiddenError(rule.RoleErr)
	}

	if s.Status != rule.From {
		return "", NewStateError(rule.StateErr)
	}

	return rule.To, nil
}
