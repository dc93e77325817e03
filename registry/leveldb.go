package registry

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/spacemeshos/poe/claims"
)

// LevelDB persists claims in a leveldb database.
// Keys are raw fingerprints, values are SCALE encoded records.
type LevelDB struct {
	db *leveldb.DB
	wo *opt.WriteOptions
}

var _ Store = (*LevelDB)(nil)

func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database @ %s: %w", path, err)
	}
	return &LevelDB{db: db, wo: &opt.WriteOptions{Sync: true}}, nil
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}

func (l *LevelDB) Contains(fp claims.Fingerprint) (bool, error) {
	return l.db.Has(fp, nil)
}

func (l *LevelDB) Get(fp claims.Fingerprint) (claims.Record, error) {
	data, err := l.db.Get(fp, nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return claims.Record{}, claims.ErrNotFound
	case err != nil:
		return claims.Record{}, fmt.Errorf("get claim %X from DB: %w", []byte(fp), err)
	}
	return claims.DecodeRecord(data)
}

func (l *LevelDB) Insert(fp claims.Fingerprint, r claims.Record) error {
	data, err := claims.EncodeRecord(r)
	if err != nil {
		return err
	}
	if err := l.db.Put(fp, data, l.wo); err != nil {
		return fmt.Errorf("storing claim %X in DB: %w", []byte(fp), err)
	}
	return nil
}

// Update checks for the key and writes the new record inside one transaction.
func (l *LevelDB) Update(fp claims.Fingerprint, r claims.Record) error {
	data, err := claims.EncodeRecord(r)
	if err != nil {
		return err
	}
	trans, err := l.db.OpenTransaction()
	if err != nil {
		return fmt.Errorf("opening transaction for claim %X: %w", []byte(fp), err)
	}

	exists, err := trans.Has(fp, nil)
	switch {
	case err != nil:
		trans.Discard()
		return fmt.Errorf("querying claim %X: %w", []byte(fp), err)
	case !exists:
		trans.Discard()
		return claims.ErrNotFound
	}
	if err := trans.Put(fp, data, nil); err != nil {
		trans.Discard()
		return fmt.Errorf("updating claim %X: %w", []byte(fp), err)
	}
	if err := trans.Commit(); err != nil {
		return fmt.Errorf("committing claim %X: %w", []byte(fp), err)
	}
	return nil
}

func (l *LevelDB) Remove(fp claims.Fingerprint) error {
	if err := l.db.Delete(fp, l.wo); err != nil {
		return fmt.Errorf("deleting claim %X from DB: %w", []byte(fp), err)
	}
	return nil
}

func (l *LevelDB) Range(fn func(fp claims.Fingerprint, r claims.Record) bool) error {
	iter := l.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		r, err := claims.DecodeRecord(iter.Value())
		if err != nil {
			return fmt.Errorf("claim %X: %w", iter.Key(), err)
		}
		fp := append(claims.Fingerprint{}, iter.Key()...)
		if !fn(fp, r) {
			break
		}
	}
	return iter.Error()
}
