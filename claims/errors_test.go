package claims

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		code Code
	}{
		{nil, CodeOK},
		{fmt.Errorf("%w: 01", ErrAlreadyExists), CodeAlreadyExists},
		{fmt.Errorf("%w: 01", ErrNotFound), CodeNotFound},
		{fmt.Errorf("%w: 01", ErrNotOwner), CodeNotOwner},
		{fmt.Errorf("%w: 01", ErrTransferFailed), CodeTransferFailed},
		{ErrUnknownOperation, CodeInternal},
		{errors.New("io"), CodeInternal},
	}
	for _, tc := range tests {
		require.Equal(t, tc.code, CodeOf(tc.err), "%v", tc.err)
	}
	require.Equal(t, "not_owner", CodeNotOwner.String())
}

func TestRecordEncoding(t *testing.T) {
	t.Parallel()
	r := Record{Owner: Identity{1, 2, 3}, RegisteredAt: 1 << 40}
	data, err := EncodeRecord(r)
	require.NoError(t, err)
	decoded, err := DecodeRecord(data)
	require.NoError(t, err)
	require.Equal(t, r, decoded)

	_, err = DecodeRecord(data[:len(data)-1])
	require.Error(t, err)
}
