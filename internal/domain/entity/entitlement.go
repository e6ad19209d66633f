package entity

import "github.com/bananaviral/bananaviral-backend/internal/domain/model"

// Entitlement is the (plan, credits) pair a purchase grants. Credits are the
// full monthly allotment, never a delta; applying the same entitlement twice
// lands on the same state.
type Entitlement struct {
	Plan    model.PlanType
	Credits int
}

// Fixed allotments per tier.
var (
	EntitlementStarter = Entitlement{Plan: model.PlanStarter, Credits: 50}
	EntitlementCreator = Entitlement{Plan: model.PlanCreator, Credits: 100}
	EntitlementAgency  = Entitlement{Plan: model.PlanAgency, Credits: 400}
)
