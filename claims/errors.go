package claims

import (
	"errors"
)

var (
	ErrAlreadyExists    = errors.New("claim already exists")
	ErrNotFound         = errors.New("claim does not exist")
	ErrNotOwner         = errors.New("caller is not the claim owner")
	ErrTransferFailed   = errors.New("claim transfer failed")
	ErrUnknownOperation = errors.New("unknown operation")
)

// Code is the closed set of outcomes an operation can report to a host.
type Code uint8

const (
	CodeOK Code = iota
	CodeAlreadyExists
	CodeNotFound
	CodeNotOwner
	CodeTransferFailed
	// CodeInternal covers everything outside the claim error taxonomy,
	// e.g. storage failures or an unknown operation selector.
	CodeInternal
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeAlreadyExists:
		return "already_exists"
	case CodeNotFound:
		return "not_found"
	case CodeNotOwner:
		return "not_owner"
	case CodeTransferFailed:
		return "transfer_failed"
	default:
		return "internal"
	}
}

// CodeOf maps an error returned by an operation to its Code.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrAlreadyExists):
		return CodeAlreadyExists
	case errors.Is(err, ErrTransferFailed):
		return CodeTransferFailed
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrNotOwner):
		return CodeNotOwner
	default:
		return CodeInternal
	}
}
