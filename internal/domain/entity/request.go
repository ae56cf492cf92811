package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a supply requisition. The set is closed; every transition must be
// listed in the transition table below.
type Status string

const (
	StatusForVerification  Status = "FOR_VERIFICATION"
	StatusAwaitingApproval Status = "AWAITING_APPROVAL"
	StatusForIssuance      Status = "FOR_ISSUANCE"
	StatusToReceive        Status = "TO_RECEIVE"
	StatusHistory          Status = "HISTORY"
	StatusRejected         Status = "REJECTED"
)

// transitions is the full state machine: a strictly linear happy path with a
// single Rejected side branch. Terminal states have no outgoing edges.
var transitions = map[Status][]Status{
	StatusForVerification:  {StatusAwaitingApproval, StatusRejected},
	StatusAwaitingApproval: {StatusForIssuance, StatusRejected},
	StatusForIssuance:      {StatusToReceive, StatusRejected},
	StatusToReceive:        {StatusHistory},
	StatusHistory:          {},
	StatusRejected:         {},
}

// String returns the wire representation of the status.
func (s Status) String() string { return string(s) }

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	return s == StatusHistory || s == StatusRejected
}

// CanTransitionTo reports whether the edge s -> next exists in the table.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// SupplyRequest is one requisition document moving through the workflow.
// Actor fields are populated as the corresponding transition occurs and are
// immutable once set.
type SupplyRequest struct {
	ID          string
	Purpose     string
	RequesterID string
	Status      Status
	ApproverID  string
	IssuerID    string
	ReceiverID  string
	LineItems   []RequestLineItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RequestLineItem is one line of a requisition. Name and Unit are denormalized
// snapshots taken at submission so the slip stays readable even if the catalog
// entry is renamed later. Qty equals RequestedQty until adjusted during
// verification, after which it is frozen for the rest of the lifecycle.
type RequestLineItem struct {
	ItemID       string
	Name         string
	Unit         string
	RequestedQty decimal.Decimal
	Qty          decimal.Decimal
}

// Line returns the line item for itemID, or nil.
func (r *SupplyRequest) Line(itemID string) *RequestLineItem {
	for i := range r.LineItems {
		if r.LineItems[i].ItemID == itemID {
			return &r.LineItems[i]
		}
	}
	return nil
}
