package order

// Status tracks an order through its fulfillment lifecycle. The numeric
// code mirrors the HTTP-like codes stored alongside delivery records and
// surfaced on the admin dashboard.
type Status string

const (
	StatusCreated                Status = "created"
	StatusPendingPayment         Status = "pending_payment"
	StatusPaid                   Status = "paid"
	StatusProofRequested         Status = "proof_requested"
	StatusDeliveredPendingReview Status = "delivered_pending_review"
	StatusClosed                 Status = "closed"
	StatusAbandoned              Status = "abandoned"
	StatusManualRecovery         Status = "manual_recovery"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusPendingPayment, StatusPaid, StatusProofRequested,
		StatusDeliveredPendingReview, StatusClosed, StatusAbandoned, StatusManualRecovery:
		return true
	default:
		return false
	}
}

func (s Status) Code() int {
	switch s {
	case StatusCreated:
		return 100
	case StatusPendingPayment:
		return 102
	case StatusPaid:
		return 200
	case StatusProofRequested:
		return 201
	case StatusDeliveredPendingReview:
		return 202
	case StatusClosed:
		return 204
	case StatusManualRecovery:
		return 300
	case StatusAbandoned:
		return 408
	default:
		return 0
	}
}

// Finalized statuses accept no further transitions except the explicit
// DeliveredPendingReview -> Closed step.
func (s Status) Finalized() bool {
	switch s {
	case StatusDeliveredPendingReview, StatusClosed, StatusAbandoned:
		return true
	default:
		return false
	}
}

var transitions = map[Status][]Status{
	StatusCreated:                {StatusPendingPayment, StatusAbandoned},
	StatusPendingPayment:         {StatusPaid, StatusAbandoned},
	StatusPaid:                   {StatusProofRequested, StatusManualRecovery},
	StatusProofRequested:         {StatusDeliveredPendingReview},
	StatusManualRecovery:         {StatusProofRequested, StatusDeliveredPendingReview},
	StatusDeliveredPendingReview: {StatusClosed},
}

// CanTransitionTo reports whether the lifecycle permits moving from s to
// next. Transitions only move forward; there is no path back to an
// earlier state.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
