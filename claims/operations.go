package claims

import (
	"errors"
	"fmt"
)

// Op selects one of the registry operations.
type Op uint8

const (
	OpCreateClaim Op = iota + 1
	OpRevokeClaim
	OpTransferClaim
)

func (o Op) String() string {
	switch o {
	case OpCreateClaim:
		return "create_claim"
	case OpRevokeClaim:
		return "revoke_claim"
	case OpTransferClaim:
		return "transfer_claim"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Call is an operation selector together with its arguments.
// Target is only used by OpTransferClaim.
type Call struct {
	Op          Op
	Fingerprint Fingerprint
	Target      Identity
}

// Apply dispatches call to the matching operation.
func Apply(reg Registry, origin Origin, call Call) (Event, error) {
	switch call.Op {
	case OpCreateClaim:
		ev, err := Register(reg, origin, call.Fingerprint)
		if err != nil {
			return nil, err
		}
		return ev, nil
	case OpRevokeClaim:
		ev, err := Revoke(reg, origin, call.Fingerprint)
		if err != nil {
			return nil, err
		}
		return ev, nil
	case OpTransferClaim:
		ev, err := Transfer(reg, origin, call.Fingerprint, call.Target)
		if err != nil {
			return nil, err
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, call.Op)
	}
}

// Register claims fp for the caller.
func Register(reg Registry, origin Origin, fp Fingerprint) (*ClaimCreated, error) {
	exists, err := reg.Contains(fp)
	if err != nil {
		return nil, fmt.Errorf("checking claim %X: %w", []byte(fp), err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %X", ErrAlreadyExists, []byte(fp))
	}
	record := Record{Owner: origin.Caller, RegisteredAt: origin.Seq}
	if err := reg.Insert(fp, record); err != nil {
		return nil, fmt.Errorf("inserting claim %X: %w", []byte(fp), err)
	}
	return &ClaimCreated{Owner: origin.Caller, Fingerprint: fp}, nil
}

// Revoke removes the claim on fp. Only the owner may revoke it.
func Revoke(reg Registry, origin Origin, fp Fingerprint) (*ClaimRemoved, error) {
	if _, err := ownedBy(reg, origin.Caller, fp); err != nil {
		return nil, err
	}
	if err := reg.Remove(fp); err != nil {
		return nil, fmt.Errorf("removing claim %X: %w", []byte(fp), err)
	}
	return &ClaimRemoved{Owner: origin.Caller, Fingerprint: fp}, nil
}

// Transfer hands the claim on fp over to target. Only the owner may transfer it.
// The record is replaced in place, fp stays claimed throughout.
func Transfer(reg Registry, origin Origin, fp Fingerprint, target Identity) (*ClaimTransfer, error) {
	if _, err := ownedBy(reg, origin.Caller, fp); err != nil {
		return nil, err
	}
	err := reg.Update(fp, Record{Owner: target, RegisteredAt: origin.Seq})
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("%w: %X", ErrTransferFailed, []byte(fp))
	case err != nil:
		return nil, fmt.Errorf("updating claim %X: %w", []byte(fp), err)
	}
	return &ClaimTransfer{Fingerprint: fp, From: origin.Caller, To: target}, nil
}

// Lookup returns the record of fp and whether fp is claimed.
func Lookup(reg Registry, fp Fingerprint) (Record, bool, error) {
	record, err := reg.Get(fp)
	switch {
	case errors.Is(err, ErrNotFound):
		return Record{}, false, nil
	case err != nil:
		return Record{}, false, fmt.Errorf("getting claim %X: %w", []byte(fp), err)
	}
	return record, true, nil
}

func ownedBy(reg Registry, caller Identity, fp Fingerprint) (Record, error) {
	record, err := reg.Get(fp)
	switch {
	case errors.Is(err, ErrNotFound):
		return Record{}, fmt.Errorf("%w: %X", ErrNotFound, []byte(fp))
	case err != nil:
		return Record{}, fmt.Errorf("getting claim %X: %w", []byte(fp), err)
	}
	if !caller.Equal(record.Owner) {
		return Record{}, fmt.Errorf("%w: %X", ErrNotOwner, []byte(fp))
	}
	return record, nil
}
