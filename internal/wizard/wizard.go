// Package wizard holds the pure step-transition rules of the checkout
// wizard. It knows nothing about rendering, storage or the network.
package wizard

import (
	"github.com/avdeenkov/homebook-checkout/internal/domain"
	"github.com/avdeenkov/homebook-checkout/internal/schedule"
)

// Advance validates the current step and returns the next one. The
// guest fields on the Details step are skipped entirely for an
// authenticated caller; the branch is on auth state, not step history.
func Advance(step domain.WizardStep, form domain.CheckoutForm, authenticated bool) (domain.WizardStep, error) {
	switch step {
	case domain.StepDetails:
		if !authenticated {
			if form.Name == "" || form.Email == "" || form.Password == "" {
				return step, domain.NewValidationError("please fill in your name, email and password")
			}
		}
		return domain.StepSchedule, nil
	case domain.StepSchedule:
		if form.Address == "" || form.Date == "" || form.Time == "" {
			return step, domain.NewValidationError("please choose an address, date and time")
		}
		if !schedule.ValidSlot(form.Time) {
			return step, domain.NewValidationError("please choose a valid time slot")
		}
		return domain.StepPayment, nil
	default:
		return step, nil
	}
}

// Retreat always succeeds; from Details it is a no-op.
func Retreat(step domain.WizardStep) domain.WizardStep {
	switch step {
	case domain.StepPayment:
		return domain.StepSchedule
	case domain.StepSchedule:
		return domain.StepDetails
	default:
		return domain.StepDetails
	}
}
