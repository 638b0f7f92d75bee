package drop

import "errors"

var (
	ErrInvalidRate       = errors.New("invalid rate; must be > 0")
	ErrInvalidTrialCount = errors.New("invalid trial count; must be >= 0")
	ErrInvalidTarget     = errors.New("invalid target probability; must be in (0,1)")
	ErrInvalidInput      = errors.New("invalid input")
)
