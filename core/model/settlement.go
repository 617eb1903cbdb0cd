package model

// RemunerationInfo is the payment breakdown of one settlement: the capacity
// component paid for procurement, the energy component paid for delivery,
// the signed total and the direction the energy payment flows.
type RemunerationInfo struct {
	ProcuredCapacity float64
	DeployedEnergy   float64
	Total            float64
	Direction        PaymentDirection
}

// Remuneration is the offer-level settlement record, derived from an
// Activation.
type Remuneration struct {
	ID           string
	ActivationID string
	Info         RemunerationInfo
}

// Accounting is the technical-unit level settlement record, derived from a
// Deployment.
type Accounting struct {
	ID           string
	DeploymentID string
	Info         RemunerationInfo
}
