package iso7816

import (
	"fmt"
	"strings"
)

// TRANSACTION:
// A Transaction is the atomic unit of communication defined in ISO 7816-3:
// one Command APDU sent by the terminal, followed by one Response APDU sent
// back by the card.
//
// TRACE:
// A Trace is the chronological sequence of Transactions produced by one
// logical operation. A single logical intent may require several physical
// exchanges because of transport mechanisms:
// 1. "61 XX": the card holds XX extra bytes; the terminal sends GET RESPONSE.
// 2. "6C XX": the terminal must re-send the command with Le = XX.
// In those cases the Trace records the entire conversation and IsSuccess()
// evaluates the final outcome.

// Transaction represents a completed Command-Response pair.
type Transaction struct {
	Command  *CommandAPDU
	Response *ResponseAPDU
}

// IsSuccess checks if the transaction ended with a successful status.
// It returns false if the response is missing.
func (t *Transaction) IsSuccess() bool {
	if t.Response == nil {
		return false
	}
	return t.Response.Status.IsSuccess()
}

// Trace is a sequence of transactions representing the full history of a
// logical exchange, including 61XX/6CXX follow-ups.
type Trace []Transaction

// Last returns the final transaction of the trace, or nil if it is empty.
func (t Trace) Last() *Transaction {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}

// IsSuccess checks whether the FINAL transaction of the trace succeeded.
// Intermediate 61XX warnings do not affect the overall outcome.
func (t Trace) IsSuccess() bool {
	last := t.Last()
	if last == nil {
		return false
	}
	return last.IsSuccess()
}

// Data returns the response body of the final transaction, or nil.
func (t Trace) Data() []byte {
	last := t.Last()
	if last == nil || last.Response == nil {
		return nil
	}
	return last.Response.Data
}

// Describe generates a short human-readable report of the exchange,
// one line per transaction.
func (t Trace) Describe() string {
	var sb strings.Builder

	for i, tx := range t {
		sb.WriteString(fmt.Sprintf("[%d] > %s\n", i+1, tx.Command))
		if tx.Response != nil {
			sb.WriteString(fmt.Sprintf("    < %s\n", tx.Response))
		} else {
			sb.WriteString("    < (no response)\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
