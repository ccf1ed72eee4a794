package checkout

import "fmt"

// Step is a checkout stage. Steps are strictly ordered.
type Step int

const (
	StepCartReview Step = iota + 1
	StepShipping
	StepPayment
	StepConfirmation
)

// Steps lists every step in order.
var Steps = []Step{StepCartReview, StepShipping, StepPayment, StepConfirmation}

func (s Step) Title() string {
	switch s {
	case StepCartReview:
		return "Cart Review"
	case StepShipping:
		return "Shipping"
	case StepPayment:
		return "Payment"
	case StepConfirmation:
		return "Confirmation"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

func (s Step) String() string {
	return s.Title()
}

func (s Step) next() Step {
	if s >= StepConfirmation {
		return StepConfirmation
	}
	return s + 1
}

func (s Step) prev() Step {
	if s <= StepCartReview {
		return StepCartReview
	}
	return s - 1
}
