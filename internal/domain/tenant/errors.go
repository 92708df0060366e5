package tenant

import "errors"

// Domain errors for the tenant context.
var (
	ErrTeamNotFound    = errors.New("team not found")
	ErrNameRequired    = errors.New("team name is required")
	ErrNameTooLong     = errors.New("team name is too long")
	ErrInvalidIcon     = errors.New("unknown team icon")
	ErrInvalidRole     = errors.New("invalid role")
	ErrOwnerImmutable  = errors.New("the team owner cannot be changed here")
	ErrInsufficientCap = errors.New("insufficient permission")
	ErrSelectionAbsent = errors.New("selected team is not in the team list")
)
