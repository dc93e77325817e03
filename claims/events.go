package claims

import (
	"go.uber.org/zap/zapcore"
)

type EventKind uint8

const (
	EventClaimCreated EventKind = iota + 1
	EventClaimRemoved
	EventClaimTransfer
)

func (k EventKind) String() string {
	switch k {
	case EventClaimCreated:
		return "ClaimCreated"
	case EventClaimRemoved:
		return "ClaimRemoved"
	case EventClaimTransfer:
		return "ClaimTransfer"
	default:
		return "Unknown"
	}
}

// Event is the notification produced by a successful operation.
type Event interface {
	zapcore.ObjectMarshaler
	Kind() EventKind
	Claim() Fingerprint
}

type ClaimCreated struct {
	Owner       Identity
	Fingerprint Fingerprint
}

func (e *ClaimCreated) Kind() EventKind    { return EventClaimCreated }
func (e *ClaimCreated) Claim() Fingerprint { return e.Fingerprint }

func (e *ClaimCreated) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("kind", e.Kind().String())
	enc.AddString("owner", e.Owner.String())
	enc.AddString("fingerprint", e.Fingerprint.String())
	return nil
}

type ClaimRemoved struct {
	Owner       Identity
	Fingerprint Fingerprint
}

func (e *ClaimRemoved) Kind() EventKind    { return EventClaimRemoved }
func (e *ClaimRemoved) Claim() Fingerprint { return e.Fingerprint }

func (e *ClaimRemoved) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("kind", e.Kind().String())
	enc.AddString("owner", e.Owner.String())
	enc.AddString("fingerprint", e.Fingerprint.String())
	return nil
}

type ClaimTransfer struct {
	Fingerprint Fingerprint
	From        Identity
	To          Identity
}

func (e *ClaimTransfer) Kind() EventKind    { return EventClaimTransfer }
func (e *ClaimTransfer) Claim() Fingerprint { return e.Fingerprint }

func (e *ClaimTransfer) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("kind", e.Kind().String())
	enc.AddString("fingerprint", e.Fingerprint.String())
	enc.AddString("from", e.From.String())
	enc.AddString("to", e.To.String())
	return nil
}
