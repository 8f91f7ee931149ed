package wizard

import (
	"errors"
	"fmt"

	"github.com/Domenick1991/skybook/internal/session"
)

// PreconditionError is returned when a step is requested before the session
// reached it. Reached is where the session actually is.
type PreconditionError struct {
	Reached session.Step
}

func (e PreconditionError) Error() string {
	return fmt.Sprintf("booking step not available yet (session is at %s)", e.Reached)
}

// Redirect is the page that continues the wizard from Reached.
func (e PreconditionError) Redirect() string {
	return PathFor(e.Reached)
}

func PathFor(step session.Step) string {
	switch step {
	case session.StepFlightSelected:
		return "/passenger_info"
	case session.StepPassengerEntered:
		return "/seat_selection"
	case session.StepSeatSelected:
		return "/confirm_booking"
	default:
		return "/"
	}
}

func IsPrecondition(err error) (PreconditionError, bool) {
	var pe PreconditionError
	ok := errors.As(err, &pe)
	return pe, ok
}

func needStep(st *session.State, need session.Step) error {
	if st.Step() < need {
		return PreconditionError{Reached: st.Step()}
	}
	return nil
}
