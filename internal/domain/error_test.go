package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := E(CodeNotFound, "dispatch", "ghost", ErrUnknownTool)
	require.Equal(t, "dispatch: NOT_FOUND: ghost", err.Error())

	err = E(CodeUnavailable, "", "", errors.New("dial tcp: refused"))
	require.Equal(t, "UNAVAILABLE: dial tcp: refused", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("%w: status 502", ErrSourceUnavailable)
	err := E(CodeUnavailable, "repodata fetch", "", cause)

	require.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestWrap(t *testing.T) {
	require.Nil(t, Wrap(CodeInternal, "op", nil))

	// Wrapping a domain error keeps its code and existing op.
	inner := E(CodeMalformed, "decode", "bad json", ErrSourceMalformed)
	wrapped := Wrap(CodeInternal, "outer", inner)
	require.Equal(t, CodeMalformed, wrapped.Code)
	require.Equal(t, "decode", wrapped.Op)

	// A plain error picks up the given code and op.
	wrapped = Wrap(CodeInternal, "outer", errors.New("boom"))
	require.Equal(t, CodeInternal, wrapped.Code)
	require.Equal(t, "outer", wrapped.Op)
	require.Equal(t, "boom", wrapped.Message)
}

func TestCodeFrom(t *testing.T) {
	code, ok := CodeFrom(E(CodeInvalidArgument, "x", "y", nil))
	require.True(t, ok)
	require.Equal(t, CodeInvalidArgument, code)

	// Bare sentinels map to their conventional codes.
	code, ok = CodeFrom(fmt.Errorf("dispatch: %w", ErrUnknownTool))
	require.True(t, ok)
	require.Equal(t, CodeNotFound, code)

	code, ok = CodeFrom(ErrDuplicateTool)
	require.True(t, ok)
	require.Equal(t, CodeAlreadyExists, code)

	_, ok = CodeFrom(errors.New("unclassified"))
	require.False(t, ok)

	_, ok = CodeFrom(nil)
	require.False(t, ok)
}
