// Package validator provides composable rules that produce field level errors.
//
// A Rule pairs a check with the ValidationError reported when the check fails. Apply runs
// every rule and returns all failures at once as ValidationErrors, so a client can show
// them next to the corresponding inputs.
//
//	err := validator.Apply(
//		validator.RequiredString("email", in.Email),
//		validator.ValidEmail("email", in.Email),
//		validator.StrongPassword("password", in.Password, validator.DefaultPasswordStrength()),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs.Has("email") {
//		// errs.Map() feeds the "details" of a 400 response
//	}
//
// Rules are evaluated eagerly and independently. Use When to make a rule conditional.
package validator
