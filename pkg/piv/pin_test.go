package piv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/piv-card/pkg/tlv"
)

func TestChangeReferenceCommand_Build(t *testing.T) {
	t.Run("change PIN", func(t *testing.T) {
		raw := mustBuild(t, ChangeReferenceCommand{Current: []byte("123456"), New: []byte("654321")})
		require.Equal(t, tlv.Hex("00 24 00 80 10 313233343536FFFF 363534333231FFFF"), raw)
	})

	t.Run("change PUK", func(t *testing.T) {
		raw := mustBuild(t, ChangeReferenceCommand{ChangePUK: true, Current: []byte("12345678"), New: []byte("87654321")})
		require.Equal(t, tlv.Hex("00 24 00 81 10 3132333435363738 3837363534333231"), raw)
	})

	t.Run("invalid lengths", func(t *testing.T) {
		_, err := ChangeReferenceCommand{Current: []byte("12345"), New: []byte("654321")}.Build()
		require.ErrorIs(t, err, ErrInvalidArgument)

		_, err = ChangeReferenceCommand{Current: []byte("123456"), New: []byte("123456789")}.Build()
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestChangeReferenceResponse_Retries(t *testing.T) {
	resp, err := NewChangeReferenceResponse(respFrom(t, "63C2"))
	require.NoError(t, err)
	require.Equal(t, StatusAuthenticationRequired, resp.Status())

	retries, err := resp.Retries()
	require.NoError(t, err)
	require.Equal(t, intp(2), retries)
}

func TestResetRetryCommand_Build(t *testing.T) {
	t.Run("unblock", func(t *testing.T) {
		raw := mustBuild(t, ResetRetryCommand{PUK: []byte("87654321"), NewPIN: []byte("123456")})
		require.Equal(t, tlv.Hex("00 2C 00 80 10 3837363534333231 313233343536FFFF"), raw)
	})

	t.Run("invalid lengths", func(t *testing.T) {
		_, err := ResetRetryCommand{PUK: nil, NewPIN: []byte("123456")}.Build()
		require.ErrorIs(t, err, ErrInvalidArgument)

		_, err = ResetRetryCommand{PUK: []byte("87654321"), NewPIN: []byte("1234")}.Build()
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestResetRetryResponse_Retries(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		resp, err := NewResetRetryResponse(respFrom(t, "9000"))
		require.NoError(t, err)

		retries, err := resp.Retries()
		require.NoError(t, err)
		require.Nil(t, retries)
	})

	t.Run("PUK blocked", func(t *testing.T) {
		resp, err := NewResetRetryResponse(respFrom(t, "6983"))
		require.NoError(t, err)

		retries, err := resp.Retries()
		require.NoError(t, err)
		require.Equal(t, intp(0), retries)
	})
}
