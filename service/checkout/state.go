package checkout

import (
	"grocery.GO/core/store"
	"grocery.GO/model/entity"
)

type State struct {
	Step      Step          `json:"step"`
	StepTitle string        `json:"stepTitle"`
	Open      bool          `json:"open"`
	Shipping  ShippingForm  `json:"shipping"`
	Payment   PaymentForm   `json:"payment"`
	LastEvent *Event        `json:"lastEvent,omitempty"`
	Order     *entity.Order `json:"order,omitempty"`
}

// Initial is an open flow at CartReview with the default country preselected.
func Initial() State {
	return State{
		Step:      StepCartReview,
		StepTitle: StepCartReview.Title(),
		Open:      true,
		Shipping:  ShippingForm{Country: DefaultCountry},
	}
}

// Completed reports whether an order was placed in this flow.
func (s State) Completed() bool {
	return s.Step == StepConfirmation && s.Order != nil
}

func (s State) public() State {
	s.Payment = s.Payment.Masked()
	return s
}

type (
	goNext      struct{}
	goPrev      struct{}
	reset       struct{}
	setShipping struct{ form ShippingForm }
	setPayment  struct{ form PaymentForm }
	emit        struct{ event Event }
	orderPlaced struct{ order *entity.Order }
)

func reduce(prev State, action store.Action) State {
	next := prev
	switch a := action.(type) {
	case goNext:
		next.Step = prev.Step.next()
		next.Open = true
	case goPrev:
		next.Step = prev.Step.prev()
	case setShipping:
		next.Shipping = a.form
	case setPayment:
		next.Payment = a.form
	case emit:
		ev := a.event
		next.LastEvent = &ev
		if ev.Kind == EventAuthRequired {
			next.Open = false
		}
	case orderPlaced:
		next.Step = StepConfirmation
		next.Order = a.order
		next.LastEvent = &Event{Kind: EventOrderPlaced, Message: MsgOrderPlaced, OrderID: a.order.ID}
	case reset:
		next = Initial()
	default:
		return prev
	}
	next.StepTitle = next.Step.Title()
	return next
}
