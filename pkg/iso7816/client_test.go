package iso7816

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// scriptedCard replays canned responses and records the commands it saw.
type scriptedCard struct {
	responses [][]byte
	received  [][]byte
}

func (c *scriptedCard) Transmit(cmd []byte) ([]byte, error) {
	c.received = append(c.received, cmd)
	if len(c.responses) == 0 {
		return []byte{0x6F, 0x00}, nil
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func TestClient_Send_Direct(t *testing.T) {
	card := &scriptedCard{responses: [][]byte{{0x01, 0x02, 0x90, 0x00}}}
	client := NewClient(card)

	trace, err := client.Send(NewCommandAPDU(0x00, 0xCA, 0x00, 0x00, nil, 0))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(trace) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(trace))
	}
	if !trace.IsSuccess() {
		t.Error("trace should be successful")
	}
	if diff := cmp.Diff([]byte{0x01, 0x02}, trace.Data()); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Send_GetResponse(t *testing.T) {
	// First exchange announces 3 pending bytes, second delivers them.
	card := &scriptedCard{responses: [][]byte{
		{0x61, 0x03},
		{0xAA, 0xBB, 0xCC, 0x90, 0x00},
	}}
	client := NewClient(card)

	trace, err := client.Send(NewCommandAPDU(0x00, 0xF8, 0x00, 0x00, nil, 0))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(trace) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(trace))
	}

	// The follow-up must be GET RESPONSE with Le = 3.
	want := []byte{0x00, 0xC0, 0x00, 0x00, 0x03}
	if !bytes.Equal(card.received[1], want) {
		t.Errorf("GET RESPONSE = % X, want % X", card.received[1], want)
	}

	if !bytes.Equal(trace.Data(), []byte{0xAA, 0xBB, 0xCC}) {
		t.Errorf("final payload = % X", trace.Data())
	}
}

func TestClient_Send_WrongLength(t *testing.T) {
	// Card corrects Le to 2, then answers.
	card := &scriptedCard{responses: [][]byte{
		{0x6C, 0x02},
		{0x11, 0x22, 0x90, 0x00},
	}}
	client := NewClient(card)

	original := NewCommandAPDU(0x00, 0xB0, 0x00, 0x00, nil, MaxShortLe)
	trace, err := client.Send(original)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(trace) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(trace))
	}
	// Re-issued command carries the corrected Le.
	want := []byte{0x00, 0xB0, 0x00, 0x00, 0x02}
	if !bytes.Equal(card.received[1], want) {
		t.Errorf("re-issued command = % X, want % X", card.received[1], want)
	}
	// The original command must not have been mutated.
	if original.Ne != MaxShortLe {
		t.Errorf("original Ne mutated to %d", original.Ne)
	}
}

func TestClient_Send_LoopBound(t *testing.T) {
	// A card that always claims more data must not loop forever.
	responses := make([][]byte, 0, maxProtocolSteps+1)
	for i := 0; i <= maxProtocolSteps; i++ {
		responses = append(responses, []byte{0x61, 0x01})
	}
	client := NewClient(&scriptedCard{responses: responses})

	if _, err := client.Send(NewCommandAPDU(0x00, 0xCA, 0x00, 0x00, nil, 0)); err == nil {
		t.Error("expected error for endless 61XX sequence")
	}
}

func TestClient_SendAll(t *testing.T) {
	card := &scriptedCard{responses: [][]byte{
		{0x01, 0x02, 0x61, 0x02},
		{0x03, 0x04, 0x90, 0x00},
	}}
	client := NewClient(card)

	body, sw, err := client.SendAll(NewCommandAPDU(0x00, 0xCB, 0x3F, 0xFF, []byte{0x5C, 0x01, 0x7E}, 0))
	if err != nil {
		t.Fatalf("SendAll failed: %v", err)
	}
	if sw != SW_NO_ERROR {
		t.Errorf("status = %04X", uint16(sw))
	}
	if !bytes.Equal(body, []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Errorf("joined body = % X", body)
	}
}
