package domain

// GateState is the state of the sensitive-field edit guard on the profile form.
type GateState string

const (
	GateIdle                 GateState = "idle"
	GateAwaitingVerification GateState = "awaiting_verification"
	GateVerified             GateState = "verified"
)
