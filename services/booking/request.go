package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelops/models"
	"hotelops/services/guest"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// stay is a validated booking request.
type stay struct {
	checkIn  time.Time
	checkOut time.Time
	total    float64
}

// ParseTime accepts RFC3339 timestamps and YYYY-MM-DD dates. Dates are
// midnight UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither an RFC3339 timestamp nor a YYYY-MM-DD date", s)
	}
	return t, nil
}

// ParseInterval parses a half-open [from, to) range and requires from < to.
func ParseInterval(from, to string) (time.Time, time.Time, error) {
	start, err := ParseTime(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseTime(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, errors.New("check-in must be before check-out")
	}
	return start, end, nil
}

func parseRequest(req models.ReservationRequest) (stay, error) {
	if err := validate.Struct(req); err != nil {
		return stay{}, newError(KindInvalidRequest, err, "%s", describeValidation(err))
	}

	checkIn, checkOut, err := ParseInterval(req.CheckIn, req.CheckOut)
	if err != nil {
		return stay{}, newError(KindInvalidRequest, nil, "%s", err.Error())
	}

	if req.GuestID == "" {
		if guest.DeriveUsername(req.GuestIdentity) == "" {
			return stay{}, newError(KindInvalidRequest, nil, "guestId or the guest's name or email is required")
		}
		if req.Email != "" {
			if err := validate.Var(req.Email, "email"); err != nil {
				return stay{}, newError(KindInvalidRequest, nil, "email %q is not valid", req.Email)
			}
		}
	}

	total := req.TotalAmount
	if len(req.Charges) > 0 {
		total = models.ChargesTotal(req.Charges)
	}
	return stay{checkIn: checkIn, checkOut: checkOut, total: total}, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Namespace()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Namespace(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
