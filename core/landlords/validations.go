package landlords

import (
	"errors"
	"net/mail"
	"slices"
	"strings"
)

var ErrInvalidLandlord = errors.New("invalid landlord")

var titles = []string{"mr", "mrs", "miss", "ms", "dr", "prof", "rev", "other"}

func ValidateLandlord(l Landlord) error {
	var problems []error

	switch l.Type {
	case TypePrivate:
		if len(strings.TrimSpace(l.FullName)) == 0 {
			problems = append(problems, errors.New("full name is required for private landlords"))
		}
	case TypeCompany:
		if len(strings.TrimSpace(l.CompanyName)) == 0 {
			problems = append(problems, errors.New("company name is required for company landlords"))
		}
	default:
		problems = append(problems, errors.New("landlord type must be private or company"))
	}

	if l.Status != StatusActive && l.Status != StatusInactive {
		problems = append(problems, errors.New("status must be active or inactive"))
	}

	if len(strings.TrimSpace(l.PhoneNr)) == 0 {
		problems = append(problems, errors.New("phone number is required"))
	}

	if l.Title != "" && !slices.Contains(titles, l.Title) {
		problems = append(problems, errors.New("unknown title"))
	}

	if l.Email != "" {
		if _, err := mail.ParseAddress(l.Email); err != nil {
			problems = append(problems, errors.New("email is not valid"))
		}
	}

	if len(problems) == 0 {
		return nil
	}

	return errors.Join(append([]error{ErrInvalidLandlord}, problems...)...)
}
