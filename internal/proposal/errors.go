package proposal

import "errors"

var (
	ErrMissingFields       = errors.New("all fields are required")
	ErrDuplicateTitle      = errors.New("duplicate proposal title")
	ErrProposalNotFound    = errors.New("proposal not found")
	ErrInvalidProposalData = errors.New("invalid proposal data received")
	ErrNoProposalsFound    = errors.New("no proposals found")
	ErrUnresolvedUser      = errors.New("proposal user could not be resolved")
)
