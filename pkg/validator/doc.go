// Package validator builds declarative field checks.
//
// Each helper returns a Rule; Apply evaluates a list of rules and returns a
// ValidationErrors value listing every failure, or nil. ValidationErrors is an
// error, matches ErrValidationFailed through errors.Is, and reports its
// failing fields in order through Fields:
//
//	err := validator.Apply(
//		validator.Required("email", ev.Email),
//		validator.ValidEmail("email", ev.Email),
//		validator.ValidURL("url", ev.URL, "http", "https"),
//	)
//	if verrs := validator.Extract(err); verrs != nil {
//		fields := verrs.Fields()
//	}
//
// Optional fields are checked only when present with When.
package validator
