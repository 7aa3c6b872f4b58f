package iso7816

import (
	"fmt"

	"github.com/cardforge/piv-card/pkg/bits"
)

// Dynamic Status Word Logic:
//
// Most Status Words (SW) are static 2-byte values (e.g. 0x9000), but
// ISO 7816-4 defines ranges where SW2 carries contextual information:
//
// 1. '61XX' (SW1=0x61): Process completed, XX more response bytes are
//    available for retrieval with GET RESPONSE.
//
// 2. '6CXX' (SW1=0x6C): Wrong length. XX is the correct Le for the command.
//
// 3. '63CX' (Warning): Counter. When the upper nibble of SW2 is 'C', the
//    lower nibble is a counter value (e.g. remaining PIN retries).

// StatusWord represents the two-byte status trailer (SW1-SW2) returned by
// the card after every command.
type StatusWord uint16

// NewStatusWord creates a StatusWord from its two bytes.
func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(uint16(sw1)<<8 | uint16(sw2))
}

// SW1 returns the first (high) byte of the status word.
func (sw StatusWord) SW1() byte {
	return byte(sw >> 8)
}

// SW2 returns the second (low) byte of the status word.
func (sw StatusWord) SW2() byte {
	return byte(sw)
}

// IsRetryCounter reports whether the status word carries a retry counter
// in the low nibble of SW2 ('63CX' pattern).
func (sw StatusWord) IsRetryCounter() bool {
	if sw.SW1() != 0x63 {
		return false
	}
	return bits.GetRange(sw.SW2(), 8, 5) == 0x0C
}

// RetryCounter returns the counter value of a '63CX' status word.
// The result is meaningless unless IsRetryCounter reports true.
func (sw StatusWord) RetryCounter() int {
	return int(bits.GetRange(sw.SW2(), 4, 1))
}

// IsMoreData reports whether the card announced pending response bytes
// ('61XX'). SW2 is the number of bytes available.
func (sw StatusWord) IsMoreData() bool {
	return sw.SW1() == 0x61
}

// IsWrongLength reports whether the card rejected the expected length
// ('6CXX'). SW2 is the correct Le.
func (sw StatusWord) IsWrongLength() bool {
	return sw.SW1() == 0x6C
}

// IsSuccess returns true if the command was processed successfully (9000)
// or if response data is available (61XX).
func (sw StatusWord) IsSuccess() bool {
	return sw == SW_NO_ERROR || sw.IsMoreData()
}

// IsWarning returns true if the status indicates a warning (62XX or 63XX).
func (sw StatusWord) IsWarning() bool {
	sw1 := sw.SW1()
	return sw1 == 0x62 || sw1 == 0x63
}

// IsError returns true if the status indicates an execution or checking
// error (64XX to 6FXX).
func (sw StatusWord) IsError() bool {
	sw1 := sw.SW1()
	return sw1 >= 0x64 && sw1 <= 0x6F
}

// Verbose returns a human-readable description of the status word.
// Dynamic ISO patterns take precedence over the static catalog.
func (sw StatusWord) Verbose() string {
	if sw.IsRetryCounter() {
		return fmt.Sprintf("[%04X] Warning: counter = %d", uint16(sw), sw.RetryCounter())
	}
	if sw.IsMoreData() {
		return fmt.Sprintf("[%04X] Process completed, %d bytes available", uint16(sw), sw.SW2())
	}
	if sw.IsWrongLength() {
		return fmt.Sprintf("[%04X] Wrong length, correct Le is %d", uint16(sw), sw.SW2())
	}

	if name, ok := statusWordNames[sw]; ok {
		return fmt.Sprintf("[%04X] %s", uint16(sw), name)
	}
	return fmt.Sprintf("[%04X] %s", uint16(sw), sw.genericCategoryDescription())
}

// genericCategoryDescription provides a fallback description based on SW1.
func (sw StatusWord) genericCategoryDescription() string {
	switch sw.SW1() {
	case 0x62:
		return "Warning: NV memory unchanged"
	case 0x63:
		return "Warning: NV memory changed"
	case 0x64:
		return "Execution Error: NV memory unchanged"
	case 0x65:
		return "Execution Error: NV memory changed"
	case 0x66:
		return "Execution Error: Security issue"
	case 0x68:
		return "Checking Error: Function not supported"
	case 0x69:
		return "Checking Error: Command not allowed"
	case 0x6A:
		return "Checking Error: Wrong parameters"
	default:
		return "Unknown Status"
	}
}

// Status Word codes defined in ISO/IEC 7816-4, limited to the values the
// PIV command set actually produces.
const (
	SW_NO_ERROR StatusWord = 0x9000

	SW_WARN_COUNTER_0 StatusWord = 0x63C0

	SW_ERR_EXEC_NO_INFO StatusWord = 0x6400

	SW_ERR_WRONG_LENGTH StatusWord = 0x6700

	SW_ERR_SECURITY_STATUS_NOT_SAT StatusWord = 0x6982
	SW_ERR_AUTH_METHOD_BLOCKED     StatusWord = 0x6983
	SW_ERR_REF_DATA_NOT_USABLE     StatusWord = 0x6984
	SW_ERR_COND_OF_USE_NOT_SAT     StatusWord = 0x6985

	SW_ERR_INCORRECT_PARAMS_DATA StatusWord = 0x6A80
	SW_ERR_FUNC_NOT_SUPPORTED    StatusWord = 0x6A81
	SW_ERR_FILE_NOT_FOUND        StatusWord = 0x6A82
	SW_ERR_RECORD_NOT_FOUND      StatusWord = 0x6A83
	SW_ERR_NOT_ENOUGH_MEMORY     StatusWord = 0x6A84
	SW_ERR_INCORRECT_PARAMS_P1P2 StatusWord = 0x6A86
	SW_ERR_REF_DATA_NOT_FOUND    StatusWord = 0x6A88

	SW_ERR_WRONG_P1P2        StatusWord = 0x6B00
	SW_ERR_INS_INVALID       StatusWord = 0x6D00
	SW_ERR_CLA_NOT_SUPPORTED StatusWord = 0x6E00
	SW_ERR_UNKNOWN           StatusWord = 0x6F00
)

var statusWordNames = map[StatusWord]string{
	SW_NO_ERROR:                    "SW_NO_ERROR",
	SW_WARN_COUNTER_0:              "SW_WARN_COUNTER_0",
	SW_ERR_EXEC_NO_INFO:            "SW_ERR_EXEC_NO_INFO",
	SW_ERR_WRONG_LENGTH:            "SW_ERR_WRONG_LENGTH",
	SW_ERR_SECURITY_STATUS_NOT_SAT: "SW_ERR_SECURITY_STATUS_NOT_SAT",
	SW_ERR_AUTH_METHOD_BLOCKED:     "SW_ERR_AUTH_METHOD_BLOCKED",
	SW_ERR_REF_DATA_NOT_USABLE:     "SW_ERR_REF_DATA_NOT_USABLE",
	SW_ERR_COND_OF_USE_NOT_SAT:     "SW_ERR_COND_OF_USE_NOT_SAT",
	SW_ERR_INCORRECT_PARAMS_DATA:   "SW_ERR_INCORRECT_PARAMS_DATA",
	SW_ERR_FUNC_NOT_SUPPORTED:      "SW_ERR_FUNC_NOT_SUPPORTED",
	SW_ERR_FILE_NOT_FOUND:          "SW_ERR_FILE_NOT_FOUND",
	SW_ERR_RECORD_NOT_FOUND:        "SW_ERR_RECORD_NOT_FOUND",
	SW_ERR_NOT_ENOUGH_MEMORY:       "SW_ERR_NOT_ENOUGH_MEMORY",
	SW_ERR_INCORRECT_PARAMS_P1P2:   "SW_ERR_INCORRECT_PARAMS_P1P2",
	SW_ERR_REF_DATA_NOT_FOUND:      "SW_ERR_REF_DATA_NOT_FOUND",
	SW_ERR_WRONG_P1P2:              "SW_ERR_WRONG_P1P2",
	SW_ERR_INS_INVALID:             "SW_ERR_INS_INVALID",
	SW_ERR_CLA_NOT_SUPPORTED:       "SW_ERR_CLA_NOT_SUPPORTED",
	SW_ERR_UNKNOWN:                 "SW_ERR_UNKNOWN",
}
