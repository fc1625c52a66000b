package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.Equal(t, "key has subkeys: access denied", ErrKeyHasSubkeys.Error())

	var nilErr *Error
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestError_ChainMatching(t *testing.T) {
	wrapped := fmt.Errorf("open .txt: %w", ErrNotFound)
	io := IOError("regval: read value", wrapped)

	require.Error(t, io)
	assert.ErrorIs(t, io, ErrNotFound)
	assert.True(t, IsKind(io, ErrKindIO))
	assert.True(t, IsKind(io, ErrKindNotFound))
	assert.False(t, IsKind(io, ErrKindPermission))

	var te *Error
	require.True(t, errors.As(io, &te))
	assert.Equal(t, ErrKindIO, te.Kind)
}

func TestIsKind(t *testing.T) {
	cause := errors.New("plain cause")
	tests := []struct {
		name string
		err  error
		kind ErrKind
		want bool
	}{
		{name: "nil", err: nil, kind: ErrKindNotFound, want: false},
		{name: "plain error", err: cause, kind: ErrKindNotFound, want: false},
		{name: "sentinel", err: ErrNotFound, kind: ErrKindNotFound, want: true},
		{name: "nil typed pointer", err: (*Error)(nil), kind: ErrKindNotFound, want: false},
		{name: "wrapped once", err: fmt.Errorf("open: %w", ErrAccessDenied), kind: ErrKindPermission, want: true},
		{
			name: "second operand of two %w",
			err:  fmt.Errorf("resolve executable: %w: %w", ErrExecutableDoesntExist, ErrNotFound),
			kind: ErrKindNotFound,
			want: true,
		},
		{
			name: "first operand of two %w",
			err:  fmt.Errorf("resolve executable: %w: %w", ErrExecutableDoesntExist, cause),
			kind: ErrKindExecutable,
			want: true,
		},
		{
			name: "joined errors",
			err:  errors.Join(cause, IOError("regval: read value", ErrMoreData)),
			kind: ErrKindMoreData,
			want: true,
		},
		{
			name: "absent kind in tree",
			err:  fmt.Errorf("x: %w: %w", ErrExecutableDoesntExist, cause),
			kind: ErrKindPermission,
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsKind(tt.err, tt.kind))
		})
	}
}

func TestError_SameKindSentinelsAreDistinct(t *testing.T) {
	// Matching is by identity along the Err chain, never by Kind alone.
	assert.Equal(t, ErrAlreadyAssociated.Kind, ErrStillAssociated.Kind)
	assert.NotErrorIs(t, ErrAlreadyAssociated, ErrStillAssociated)
	assert.NotErrorIs(t, ErrStillAssociated, ErrAlreadyAssociated)

	custom := &Error{Kind: ErrKindNotFound, Msg: "progid: no such record"}
	assert.NotErrorIs(t, custom, ErrNotFound)
	assert.True(t, IsKind(custom, ErrKindNotFound))
}

func TestError_SubkeysIsAccessDenied(t *testing.T) {
	assert.ErrorIs(t, ErrKeyHasSubkeys, ErrAccessDenied)
	assert.NotErrorIs(t, ErrAccessDenied, ErrKeyHasSubkeys)
}

func TestError_GatesAreDistinct(t *testing.T) {
	assert.NotErrorIs(t, ErrReadPermissionRequired, ErrWritePermissionRequired)
	assert.True(t, IsKind(ErrReadPermissionRequired, ErrKindReadGate))
	assert.True(t, IsKind(ErrWritePermissionRequired, ErrKindWriteGate))
}

func TestIOError_NilCause(t *testing.T) {
	assert.NoError(t, IOError("anything", nil))
}

func TestErrKind_String(t *testing.T) {
	assert.Equal(t, "not-found", ErrKindNotFound.String())
	assert.Equal(t, "write-gate", ErrKindWriteGate.String())
	assert.Equal(t, "unknown", ErrKind(999).String())
}
