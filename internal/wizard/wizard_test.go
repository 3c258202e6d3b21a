package wizard

import (
	"testing"

	"github.com/avdeenkov/homebook-checkout/internal/domain"
	"github.com/stretchr/testify/assert"
)

func filledForm() domain.CheckoutForm {
	return domain.CheckoutForm{
		Name:     "Jane Roe",
		Email:    "jane@example.com",
		Password: "secret123",
		Address:  "12 Main St",
		Date:     "2026-09-01",
		Time:     "10:00 AM",
	}
}

func TestAdvance_GuestDetailsRequireAllFields(t *testing.T) {
	form := filledForm()
	form.Password = ""

	next, err := Advance(domain.StepDetails, form, false)
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, domain.StepDetails, next)
}

func TestAdvance_AuthenticatedSkipsGuestFields(t *testing.T) {
	next, err := Advance(domain.StepDetails, domain.CheckoutForm{}, true)
	assert.NoError(t, err)
	assert.Equal(t, domain.StepSchedule, next)
}

func TestAdvance_ScheduleRequiresAddressDateTime(t *testing.T) {
	form := filledForm()
	form.Date = ""

	next, err := Advance(domain.StepSchedule, form, true)
	assert.Error(t, err)
	assert.Equal(t, domain.StepSchedule, next)

	form = filledForm()
	form.Time = "sometime"
	_, err = Advance(domain.StepSchedule, form, true)
	assert.Error(t, err)
}

func TestAdvance_FullForwardPath(t *testing.T) {
	form := filledForm()

	step, err := Advance(domain.StepDetails, form, false)
	assert.NoError(t, err)
	assert.Equal(t, domain.StepSchedule, step)

	step, err = Advance(step, form, false)
	assert.NoError(t, err)
	assert.Equal(t, domain.StepPayment, step)

	// Advancing past Payment is a no-op.
	step, err = Advance(step, form, false)
	assert.NoError(t, err)
	assert.Equal(t, domain.StepPayment, step)
}

func TestRetreat(t *testing.T) {
	assert.Equal(t, domain.StepSchedule, Retreat(domain.StepPayment))
	assert.Equal(t, domain.StepDetails, Retreat(domain.StepSchedule))
	assert.Equal(t, domain.StepDetails, Retreat(domain.StepDetails))
}

// Payment must be unreachable without Details and Schedule both
// satisfied, for any sequence of forward/backward calls.
func TestAdvance_NeverSkipsValidation(t *testing.T) {
	empty := domain.CheckoutForm{}
	step := domain.StepDetails

	for i := 0; i < 6; i++ {
		next, err := Advance(step, empty, false)
		if err != nil {
			next = Retreat(step)
		}
		step = next
		assert.NotEqual(t, domain.StepPayment, step)
		assert.NotEqual(t, domain.StepSchedule, step)
	}
}
