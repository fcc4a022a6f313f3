package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrEditConflict      = errors.New("edit conflict")
	ErrUnknownRequester  = errors.New("unknown requester")
	ErrUnknownShow       = errors.New("unknown show")
	ErrInvalidSeat       = errors.New("seat does not belong to the show")
	ErrEmptySelection    = errors.New("at least one seat must be selected")
	ErrSeatUnavailable   = errors.New("seat(s) are no longer available")
	ErrMissingPriceRule  = errors.New("no price configured for seat category")
	ErrInvalidTransition = errors.New("booking does not allow this transition")
)
