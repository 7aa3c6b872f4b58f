package iso7816

import (
	"fmt"
)

// CLIENT & PROTOCOL LOGIC:
// The Client is a high-level driver over the physical connection. It
// implements the ISO 7816-3 transport behaviors that T=0 protocols leak
// into the application layer:
//
// 1. "61 XX" (Response Available):
//    The card holds XX response bytes. The client automatically issues a
//    GET RESPONSE command to retrieve them.
//
// 2. "6C XX" (Wrong Length):
//    The card rejects the expected length and suggests XX. The client
//    automatically re-sends the original command with Le = XX.
//
// Send() returns a Trace: the log of every atomic transaction that was
// needed to fulfill the logical request.

// insGetResponse is the ISO 7816-4 GET RESPONSE instruction.
const insGetResponse = 0xC0

// maxProtocolSteps bounds the number of physical exchanges per logical
// command, so a misbehaving card cannot keep the client in a loop.
const maxProtocolSteps = 16

// Transmitter abstracts the physical card connection.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// Client manages the high-level communication with the card.
type Client struct {
	Card Transmitter
}

// NewClient creates a new Client instance.
func NewClient(card Transmitter) *Client {
	return &Client{Card: card}
}

// Send transmits a command and handles the 61XX/6CXX protocol logic.
func (c *Client) Send(cmd *CommandAPDU) (Trace, error) {
	var trace Trace

	next := cmd
	for step := 0; step < maxProtocolSteps; step++ {
		rawCmd, err := next.Bytes()
		if err != nil {
			return trace, fmt.Errorf("encoding error: %w", err)
		}

		rawResp, err := c.Card.Transmit(rawCmd)
		if err != nil {
			return trace, fmt.Errorf("transmission error: %w", err)
		}

		resp, err := ParseResponseAPDU(rawResp)
		if err != nil {
			return trace, err
		}

		trace = append(trace, Transaction{Command: next, Response: resp})

		sw := resp.Status
		switch {
		case sw.IsMoreData():
			// GET RESPONSE on the same logical channel, Le = bytes available.
			next = NewCommandAPDU(next.Cla, insGetResponse, 0x00, 0x00, nil, int(sw.SW2()))

		case sw.IsWrongLength():
			// Re-issue a copy of the command with the corrected Le.
			corrected := *next
			corrected.Ne = int(sw.SW2())
			next = &corrected

		default:
			return trace, nil
		}
	}

	return trace, fmt.Errorf("card did not settle within %d protocol steps", maxProtocolSteps)
}

// SendAll joins the response bodies of a multi-step exchange into one
// buffer. GET RESPONSE sequences deliver a logical payload in fragments;
// callers that only care about the final payload use this instead of
// walking the trace.
func (c *Client) SendAll(cmd *CommandAPDU) ([]byte, StatusWord, error) {
	trace, err := c.Send(cmd)
	if err != nil {
		return nil, 0, err
	}

	var body []byte
	for _, tx := range trace {
		if tx.Response != nil {
			body = append(body, tx.Response.Data...)
		}
	}

	return body, trace.Last().Response.Status, nil
}
