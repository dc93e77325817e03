package journal

import (
	"fmt"

	"github.com/spacemeshos/poe/claims"
)

// Restore applies entries to reg in order, rebuilding the registry state they
// describe. Each record gets the sequence number of the entry that wrote it.
func Restore(reg claims.Registry, entries []Entry) error {
	for _, e := range entries {
		var err error
		switch ev := e.Event.(type) {
		case *claims.ClaimCreated:
			err = reg.Insert(ev.Fingerprint, claims.Record{Owner: ev.Owner, RegisteredAt: e.Seq})
		case *claims.ClaimRemoved:
			err = reg.Remove(ev.Fingerprint)
		case *claims.ClaimTransfer:
			err = reg.Update(ev.Fingerprint, claims.Record{Owner: ev.To, RegisteredAt: e.Seq})
		default:
			err = fmt.Errorf("%w: %T", ErrUnknownEvent, e.Event)
		}
		if err != nil {
			return fmt.Errorf("restoring event %d: %w", e.Seq, err)
		}
	}
	return nil
}
