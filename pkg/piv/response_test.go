package piv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/piv-card/pkg/iso7816"
	"github.com/cardforge/piv-card/pkg/tlv"
)

// Compile-time checks that every operation pair satisfies the dispatch
// contract.
var (
	_ Command = SelectApplicationCommand{}
	_ Command = GetDataCommand{}
	_ Command = PutDataCommand{}
	_ Command = VerifyPinCommand{}
	_ Command = ChangeReferenceCommand{}
	_ Command = ResetRetryCommand{}
	_ Command = ResetPivCommand{}
	_ Command = GetSerialNumberCommand{}
	_ Command = GetVersionCommand{}
	_ Command = InitializeAuthenticateManagementKeyCommand{}
	_ Command = CompleteAuthenticateManagementKeyCommand{}
	_ Command = AuthenticateKeyAgreeCommand{}

	_ Response = (*SelectApplicationResponse)(nil)
	_ Response = (*GetDataResponse)(nil)
	_ Response = (*PutDataResponse)(nil)
	_ Response = (*VerifyPinResponse)(nil)
	_ Response = (*ChangeReferenceResponse)(nil)
	_ Response = (*ResetRetryResponse)(nil)
	_ Response = (*ResetPivResponse)(nil)
	_ Response = (*GetSerialNumberResponse)(nil)
	_ Response = (*GetVersionResponse)(nil)
	_ Response = (*InitializeAuthenticateManagementKeyResponse)(nil)
	_ Response = (*CompleteAuthenticateManagementKeyResponse)(nil)
	_ Response = (*AuthenticateKeyAgreeResponse)(nil)
)

// respFrom builds a ResponseAPDU from hex fixture parts.
func respFrom(t *testing.T, parts ...string) *iso7816.ResponseAPDU {
	t.Helper()
	apdu, err := iso7816.ParseResponseAPDU(tlv.Hex(parts...))
	require.NoError(t, err)
	return apdu
}

func TestNewResponse_NilInput(t *testing.T) {
	constructors := map[string]func() error{
		"SelectApplication": func() error { _, err := NewSelectApplicationResponse(nil); return err },
		"GetData":           func() error { _, err := NewGetDataResponse(nil); return err },
		"PutData":           func() error { _, err := NewPutDataResponse(nil); return err },
		"VerifyPin":         func() error { _, err := NewVerifyPinResponse(nil); return err },
		"ChangeReference":   func() error { _, err := NewChangeReferenceResponse(nil); return err },
		"ResetRetry":        func() error { _, err := NewResetRetryResponse(nil); return err },
		"ResetPiv":          func() error { _, err := NewResetPivResponse(nil); return err },
		"GetSerialNumber":   func() error { _, err := NewGetSerialNumberResponse(nil); return err },
		"GetVersion":        func() error { _, err := NewGetVersionResponse(nil); return err },
		"InitializeAuth":    func() error { _, err := NewInitializeAuthenticateManagementKeyResponse(nil); return err },
		"CompleteAuth":      func() error { _, err := NewCompleteAuthenticateManagementKeyResponse(nil); return err },
		"KeyAgree":          func() error { _, err := NewAuthenticateKeyAgreeResponse(nil, AlgECCP256); return err },
	}

	for name, construct := range constructors {
		t.Run(name, func(t *testing.T) {
			err := construct()
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestResponse_StatusWordAlwaysAvailable(t *testing.T) {
	// The raw SW1||SW2 must be exposed for every outcome, data-bearing
	// or not.
	words := []string{"9000", "6A88", "6982", "63C4", "6985", "6F00"}

	for _, w := range words {
		resp, err := NewGetDataResponse(respFrom(t, w))
		require.NoError(t, err)
		require.Equal(t, tlv.Hex(w), []byte{resp.StatusWord().SW1(), resp.StatusWord().SW2()})
	}
}

func TestResponse_PayloadCopyIsIndependent(t *testing.T) {
	raw := tlv.Hex("30 01 05 9000")
	apdu, err := iso7816.ParseResponseAPDU(raw)
	require.NoError(t, err)

	resp, err := NewGetDataResponse(apdu)
	require.NoError(t, err)

	payload, err := resp.GetData()
	require.NoError(t, err)

	// Mutating the response buffer must not affect the returned copy.
	raw[0] = 0xEE
	require.Equal(t, tlv.Hex("30 01 05"), payload)
}

func TestResponse_WrongStateVsMalformed(t *testing.T) {
	// "The device said no" and "the device said something unparsable"
	// must stay distinguishable.
	denied, err := NewAuthenticateKeyAgreeResponse(respFrom(t, "6982"), AlgECCP256)
	require.NoError(t, err)
	_, err = denied.GetData()
	require.ErrorIs(t, err, ErrInvalidOperation)
	require.NotErrorIs(t, err, ErrMalformedResponse)

	garbled, err := NewAuthenticateKeyAgreeResponse(respFrom(t, "7C 03 82 05 AA 9000"), AlgECCP256)
	require.NoError(t, err)
	_, err = garbled.GetData()
	require.ErrorIs(t, err, ErrMalformedResponse)
	require.NotErrorIs(t, err, ErrInvalidOperation)
}

func TestResponseStatus_String(t *testing.T) {
	for status, want := range map[ResponseStatus]string{
		StatusSuccess:                "Success",
		StatusNoData:                 "NoData",
		StatusAuthenticationRequired: "AuthenticationRequired",
		StatusConditionsNotSatisfied: "ConditionsNotSatisfied",
		StatusFailed:                 "Failed",
		ResponseStatus(99):           "Unknown",
	} {
		if got := status.String(); got != want {
			t.Errorf("String(%d) = %q, want %q", int(status), got, want)
		}
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	kinds := []error{ErrInvalidInput, ErrInvalidArgument, ErrInvalidOperation, ErrMalformedResponse}
	for i, a := range kinds {
		for j, b := range kinds {
			if (i == j) != errors.Is(a, b) {
				t.Errorf("errors.Is(%v, %v) has wrong identity", a, b)
			}
		}
	}
}
