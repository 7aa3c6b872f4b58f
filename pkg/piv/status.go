package piv

import (
	"github.com/cardforge/piv-card/pkg/iso7816"
)

// ResponseStatus is the domain outcome of one command, derived
// deterministically from the status word.
type ResponseStatus int

const (
	// StatusSuccess: the command completed and any payload is available.
	StatusSuccess ResponseStatus = iota

	// StatusNoData: the referenced data object or application does not
	// exist on the card.
	StatusNoData

	// StatusAuthenticationRequired: verification failed, the security
	// status is not satisfied, or the authentication method is blocked.
	StatusAuthenticationRequired

	// StatusConditionsNotSatisfied: a precondition (e.g. touch) is
	// missing; the caller may retry after satisfying it.
	StatusConditionsNotSatisfied

	// StatusFailed: any other outcome.
	StatusFailed
)

func (s ResponseStatus) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusNoData:
		return "NoData"
	case StatusAuthenticationRequired:
		return "AuthenticationRequired"
	case StatusConditionsNotSatisfied:
		return "ConditionsNotSatisfied"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// statusRule maps a masked status-word pattern to a ResponseStatus.
// A rule matches when sw & mask == match.
type statusRule struct {
	mask   uint16
	match  uint16
	status ResponseStatus
}

// defaultRules is the shared classification table. Command families may
// prepend override rules, which are consulted first; behavior differences
// between commands are data, not duplicated logic.
//
// 61XX follows the transport semantics of pkg/iso7816: the client drains
// pending bytes before a decoder ever sees the trace, so a leftover 61XX
// counts as Success like 9000.
var defaultRules = []statusRule{
	{0xFFFF, 0x9000, StatusSuccess},
	{0xFF00, 0x6100, StatusSuccess},
	{0xFFFF, 0x6A82, StatusNoData}, // file or application not found
	{0xFFFF, 0x6A88, StatusNoData}, // referenced data not found
	{0xFFFF, 0x6982, StatusAuthenticationRequired}, // security status not satisfied
	{0xFFFF, 0x6983, StatusAuthenticationRequired}, // authentication method blocked
	{0xFFF0, 0x63C0, StatusAuthenticationRequired}, // verify failed, retries in low nibble
	{0xFFFF, 0x6985, StatusConditionsNotSatisfied},
}

// pinFamilyRules extends the default table for VERIFY, CHANGE REFERENCE
// DATA and RESET RETRY COUNTER. Some older cards encode the remaining
// retries as 0x630N instead of 0x63CN.
var pinFamilyRules = []statusRule{
	{0xFFF0, 0x6300, StatusAuthenticationRequired},
}

// classify maps a status word to a ResponseStatus. Total over the 16-bit
// space: anything no rule covers is StatusFailed.
func classify(sw iso7816.StatusWord, overrides []statusRule) ResponseStatus {
	w := uint16(sw)

	for _, r := range overrides {
		if w&r.mask == r.match {
			return r.status
		}
	}
	for _, r := range defaultRules {
		if w&r.mask == r.match {
			return r.status
		}
	}
	return StatusFailed
}
