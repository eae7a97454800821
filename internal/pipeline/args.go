package pipeline

import (
	"fmt"
	"time"
	"unicode"

	"github.com/couchcryptid/floodhub-etl/internal/domain"
)

// ArgDateLayout is the DD-MM-YYYY layout of command-line dates.
const ArgDateLayout = "02-01-2006"

// Request selects what one extraction run fetches.
type Request struct {
	Country  string
	Interval domain.Interval
}

// ArgError describes a command-line argument that failed validation.
type ArgError struct {
	Arg    string
	Reason string
}

func (e *ArgError) Error() string {
	if e.Arg == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Arg, e.Reason)
}

// ParseArgs validates <country> <start> <end>. Dates are DD-MM-YYYY, start
// must not be after end, and the country name starts with an upper-case
// letter and contains letters only.
func ParseArgs(args []string) (Request, error) {
	if len(args) != 3 {
		return Request{}, &ArgError{Reason: fmt.Sprintf("expected 3 arguments (country, start date, end date), got %d", len(args))}
	}
	country, rawStart, rawEnd := args[0], args[1], args[2]

	start, err := time.Parse(ArgDateLayout, rawStart)
	if err != nil {
		return Request{}, &ArgError{Arg: rawStart, Reason: "start date must be DD-MM-YYYY"}
	}
	end, err := time.Parse(ArgDateLayout, rawEnd)
	if err != nil {
		return Request{}, &ArgError{Arg: rawEnd, Reason: "end date must be DD-MM-YYYY"}
	}
	if start.After(end) {
		return Request{}, &ArgError{Arg: rawStart, Reason: "start date is after end date " + rawEnd}
	}

	if err := validateCountry(country); err != nil {
		return Request{}, err
	}

	return Request{Country: country, Interval: domain.Interval{Start: start, End: end}}, nil
}

func validateCountry(country string) error {
	if country == "" {
		return &ArgError{Reason: "country name is empty"}
	}
	for i, r := range country {
		if !unicode.IsLetter(r) {
			return &ArgError{Arg: country, Reason: "country name must contain letters only"}
		}
		if i == 0 && !unicode.IsUpper(r) {
			return &ArgError{Arg: country, Reason: "country name must start with an upper-case letter"}
		}
	}
	return nil
}
