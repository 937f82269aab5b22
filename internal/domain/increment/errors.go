package increment

import "errors"

var (
	ErrAmbiguousChange        = errors.New("exactly one of increment_percentage, increment_amount or new_salary is required")
	ErrPercentageOnZeroSalary = errors.New("a percentage increment needs a non-zero current salary")
	ErrNegativeSalary         = errors.New("resulting salary must not be negative")
)
