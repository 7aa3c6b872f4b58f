package tlv

import (
	"errors"
	"fmt"
)

// STRICT BER-TLV READING:
// Response payloads come from an external, only partially trusted card, so
// this reader is deliberately strict:
//
//   - A declared length must never claim more bytes than remain in the
//     buffer; any over-claim is an error, never a silent truncation.
//   - Parse consumes the input exactly: trailing bytes after the last node
//     are an error.
//   - Accepted length forms are the short form (<= 0x7F) and the 0x81/0x82
//     long forms. The indefinite form (0x80) and longer forms are rejected
//     outright instead of being misparsed.
//
// Node values are views into the input buffer; nothing is copied. Callers
// that hand payloads onward make their own copies.

// ErrMalformed is wrapped by every structural parsing failure.
var ErrMalformed = errors.New("tlv: malformed encoding")

// Node is a single tag-length-value triple. Tag holds the raw tag bytes in
// big-endian order (0x7C, 0x5F2F, ...). Value borrows from the parsed
// buffer and stays valid only as long as that buffer does.
type Node struct {
	Tag   uint32
	Value []byte
}

// Constructed reports whether the node's value is itself a TLV sequence
// (bit 6 of the leading tag byte).
func (n Node) Constructed() bool {
	return n.leadingTagByte()&0x20 != 0
}

// Children parses the node's value as a nested TLV sequence.
func (n Node) Children() ([]Node, error) {
	return Parse(n.Value)
}

func (n Node) leadingTagByte() byte {
	t := n.Tag
	for t > 0xFF {
		t >>= 8
	}
	return byte(t)
}

// Parse reads a complete sequence of TLV nodes from buf. The whole input
// must be consumed; a zero-length buffer yields an empty sequence.
func Parse(buf []byte) ([]Node, error) {
	var nodes []Node

	rest := buf
	for len(rest) > 0 {
		node, consumed, err := readNode(rest)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		rest = rest[consumed:]
	}

	return nodes, nil
}

// ParseOne reads exactly one TLV node spanning the whole of buf.
func ParseOne(buf []byte) (Node, error) {
	if len(buf) == 0 {
		return Node{}, fmt.Errorf("%w: empty buffer where a tag was expected", ErrMalformed)
	}

	node, consumed, err := readNode(buf)
	if err != nil {
		return Node{}, err
	}
	if consumed != len(buf) {
		return Node{}, fmt.Errorf("%w: %d trailing bytes after node %X", ErrMalformed, len(buf)-consumed, node.Tag)
	}

	return node, nil
}

// readNode decodes the node starting at buf[0] and returns it together
// with the number of bytes it occupied.
func readNode(buf []byte) (Node, int, error) {
	tag, offset, err := readTag(buf)
	if err != nil {
		return Node{}, 0, err
	}

	length, lenBytes, err := readLength(buf[offset:], tag)
	if err != nil {
		return Node{}, 0, err
	}
	offset += lenBytes

	if length > len(buf)-offset {
		return Node{}, 0, fmt.Errorf("%w: tag %X declares %d value bytes, %d remain",
			ErrMalformed, tag, length, len(buf)-offset)
	}

	return Node{Tag: tag, Value: buf[offset : offset+length]}, offset + length, nil
}

// readTag decodes a tag of up to three bytes. A leading byte with all five
// low bits set announces a multi-byte tag; subsequent bytes continue while
// bit 8 is set.
func readTag(buf []byte) (uint32, int, error) {
	if len(buf) == 0 {
		return 0, 0, fmt.Errorf("%w: empty buffer where a tag was expected", ErrMalformed)
	}

	tag := uint32(buf[0])
	if buf[0]&0x1F != 0x1F {
		return tag, 1, nil
	}

	for i := 1; ; i++ {
		if i >= len(buf) {
			return 0, 0, fmt.Errorf("%w: truncated multi-byte tag %X", ErrMalformed, tag)
		}
		if i > 2 {
			return 0, 0, fmt.Errorf("%w: tag longer than 3 bytes", ErrMalformed)
		}

		tag = tag<<8 | uint32(buf[i])
		if buf[i]&0x80 == 0 {
			return tag, i + 1, nil
		}
	}
}

// readLength decodes the length field following the tag.
func readLength(buf []byte, tag uint32) (int, int, error) {
	if len(buf) == 0 {
		return 0, 0, fmt.Errorf("%w: tag %X has no length field", ErrMalformed, tag)
	}

	first := buf[0]
	switch {
	case first <= 0x7F:
		return int(first), 1, nil

	case first == 0x81:
		if len(buf) < 2 {
			return 0, 0, fmt.Errorf("%w: tag %X has truncated 0x81 length", ErrMalformed, tag)
		}
		return int(buf[1]), 2, nil

	case first == 0x82:
		if len(buf) < 3 {
			return 0, 0, fmt.Errorf("%w: tag %X has truncated 0x82 length", ErrMalformed, tag)
		}
		return int(buf[1])<<8 | int(buf[2]), 3, nil

	case first == 0x80:
		return 0, 0, fmt.Errorf("%w: tag %X uses the indefinite length form", ErrMalformed, tag)

	default:
		return 0, 0, fmt.Errorf("%w: tag %X uses unsupported length form 0x%02X", ErrMalformed, tag, first)
	}
}
