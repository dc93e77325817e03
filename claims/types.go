package claims

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/minio/sha256-simd"
	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"
)

// Fingerprint identifies claimed content. Any byte sequence is a valid fingerprint.
type Fingerprint []byte

// FingerprintOf returns the sha256 fingerprint of data.
func FingerprintOf(data []byte) Fingerprint {
	sum := sha256.Sum256(data)
	return sum[:]
}

func (f Fingerprint) String() string {
	return hex.EncodeToString(f)
}

// Identity is an authenticated principal. It is opaque beyond equality.
type Identity []byte

func (id Identity) Equal(other Identity) bool {
	return bytes.Equal(id, other)
}

func (id Identity) String() string {
	return hex.EncodeToString(id)
}

// Record is the ownership record stored for a claimed fingerprint.
type Record struct {
	Owner Identity
	// RegisteredAt is the sequence number of the last successful create or transfer.
	RegisteredAt uint64
}

func (r *Record) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("owner", r.Owner.String())
	enc.AddUint64("registered_at", r.RegisteredAt)
	return nil
}

// Origin describes who issues an operation and when.
// The host authenticates Caller and supplies Seq; the registry trusts both.
type Origin struct {
	Caller Identity
	Seq    uint64
}

func (r *Record) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByteSlice(enc, r.Owner)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, r.RegisteredAt)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (r *Record) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeByteSlice(dec)
		if err != nil {
			return total, err
		}
		total += n
		r.Owner = field
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		r.RegisteredAt = field
	}
	return total, nil
}

// EncodeRecord returns the SCALE encoding of r.
func EncodeRecord(r Record) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := r.EncodeScale(scale.NewEncoder(&buf)); err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeRecord decodes a SCALE encoded record.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if _, err := r.DecodeScale(scale.NewDecoder(bytes.NewReader(data))); err != nil {
		return Record{}, fmt.Errorf("decoding record: %w", err)
	}
	return r, nil
}
