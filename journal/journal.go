// Package journal records the events emitted by the claim registry.
package journal

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	xdr "github.com/nullstyle/go-xdr/xdr3"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"

	"github.com/spacemeshos/poe/claims"
	"github.com/spacemeshos/poe/logging"
)

var ErrUnknownEvent = errors.New("unknown event kind")

// Entry is an event together with the sequence number of the operation that emitted it.
type Entry struct {
	Seq   uint64
	Event claims.Event
}

// record is the on-disk form of an Entry.
type record struct {
	Seq         uint64
	Kind        uint32
	Fingerprint []byte
	// Owner is the creator, the remover or the previous owner.
	Owner []byte
	// Target is set for transfers only.
	Target []byte
}

// Journal is a leveldb backed, append-only event log keyed by sequence number.
type Journal struct {
	db *leveldb.DB
}

func Open(path string) (*Journal, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal @ %s: %w", path, err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) Publish(ctx context.Context, seq uint64, ev claims.Event) error {
	rec, err := toRecord(seq, ev)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, rec); err != nil {
		return fmt.Errorf("serialization failure: %w", err)
	}
	if err := j.db.Put(seqKey(seq), buf.Bytes(), &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("storing event %d in DB: %w", seq, err)
	}
	logging.FromContext(ctx).Debug("journaled event", zap.Uint64("seq", seq), zap.Object("event", ev))
	return nil
}

// Events returns all entries with a sequence number >= from, in order.
func (j *Journal) Events(from uint64) ([]Entry, error) {
	iter := j.db.NewIterator(&util.Range{Start: seqKey(from)}, nil)
	defer iter.Release()

	var entries []Entry
	for iter.Next() {
		var rec record
		if _, err := xdr.Unmarshal(bytes.NewReader(iter.Value()), &rec); err != nil {
			return nil, fmt.Errorf("failed to deserialize event %X: %w", iter.Key(), err)
		}
		entry, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, iter.Error()
}

// LastSequence returns the highest journaled sequence number.
// The boolean is false if the journal is empty.
func (j *Journal) LastSequence() (uint64, bool, error) {
	iter := j.db.NewIterator(nil, nil)
	defer iter.Release()
	if !iter.Last() {
		return 0, false, iter.Error()
	}
	return binary.BigEndian.Uint64(iter.Key()), true, nil
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func toRecord(seq uint64, ev claims.Event) (record, error) {
	rec := record{Seq: seq, Kind: uint32(ev.Kind()), Fingerprint: ev.Claim()}
	switch e := ev.(type) {
	case *claims.ClaimCreated:
		rec.Owner = e.Owner
	case *claims.ClaimRemoved:
		rec.Owner = e.Owner
	case *claims.ClaimTransfer:
		rec.Owner = e.From
		rec.Target = e.To
	default:
		return record{}, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
	return rec, nil
}

func fromRecord(rec record) (Entry, error) {
	entry := Entry{Seq: rec.Seq}
	switch claims.EventKind(rec.Kind) {
	case claims.EventClaimCreated:
		entry.Event = &claims.ClaimCreated{Owner: rec.Owner, Fingerprint: rec.Fingerprint}
	case claims.EventClaimRemoved:
		entry.Event = &claims.ClaimRemoved{Owner: rec.Owner, Fingerprint: rec.Fingerprint}
	case claims.EventClaimTransfer:
		entry.Event = &claims.ClaimTransfer{Fingerprint: rec.Fingerprint, From: rec.Owner, To: rec.Target}
	default:
		return Entry{}, fmt.Errorf("%w: %d", ErrUnknownEvent, rec.Kind)
	}
	return entry, nil
}
