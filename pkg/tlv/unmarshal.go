// Package tlv provides BER-TLV (Tag-Length-Value) parsing in two flavors:
// a strict, non-copying reader for card response payloads (reader.go), and
// struct-tag based mapping of stored data objects into Go structures, built
// on github.com/moov-io/bertlv.
package tlv

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"github.com/moov-io/bertlv"
)

// Unmarshal parses raw BER-TLV data and maps it into a target struct.
// Fields select their tag with a `tlv:"84"` struct tag; supported field
// types are []byte (raw value), string (hex of the value), and nested
// structs for constructed tags. A field tagged `tlv:",unknown"` of type
// []bertlv.TLV collects every tag no other field consumed.
func Unmarshal(data []byte, target interface{}) error {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return fmt.Errorf("bertlv decode failed: %w", err)
	}
	return unmarshalPackets(packets, target)
}

func unmarshalPackets(packets []bertlv.TLV, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}
	v = v.Elem()
	t := v.Type()

	consumed := make(map[int]bool)

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		tagConfig := t.Field(i).Tag.Get("tlv")

		if tagConfig == "" || tagConfig == ",unknown" {
			continue
		}
		tagHex := strings.ToUpper(strings.Split(tagConfig, ",")[0])

		for idx, packet := range packets {
			if strings.ToUpper(packet.Tag) != tagHex {
				continue
			}
			if err := assignPacket(packet, field); err != nil {
				return err
			}
			consumed[idx] = true
		}
	}

	return collectUnknown(v, t, packets, consumed)
}

// assignPacket maps a single decoded TLV onto a struct field.
func assignPacket(packet bertlv.TLV, field reflect.Value) error {
	switch {
	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.Uint8:
		field.SetBytes(packetValue(packet))
		return nil

	case field.Kind() == reflect.String:
		field.SetString(hex.EncodeToString(packet.Value))
		return nil

	case field.Kind() == reflect.Struct:
		if len(packet.TLVs) > 0 {
			return unmarshalPackets(packet.TLVs, field.Addr().Interface())
		}
		return Unmarshal(packet.Value, field.Addr().Interface())

	case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct:
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		if len(packet.TLVs) > 0 {
			return unmarshalPackets(packet.TLVs, field.Interface())
		}
		return Unmarshal(packet.Value, field.Interface())

	default:
		return fmt.Errorf("unsupported field kind %s for tag %s", field.Kind(), packet.Tag)
	}
}

// packetValue returns the raw bytes of a packet, re-encoding children of
// constructed tags.
func packetValue(p bertlv.TLV) []byte {
	if len(p.TLVs) > 0 {
		if enc, err := bertlv.Encode(p.TLVs); err == nil {
			return enc
		}
	}
	return p.Value
}

func collectUnknown(v reflect.Value, t reflect.Type, packets []bertlv.TLV, consumed map[int]bool) error {
	for i := 0; i < v.NumField(); i++ {
		if t.Field(i).Tag.Get("tlv") != ",unknown" {
			continue
		}

		var leftovers []bertlv.TLV
		for idx, packet := range packets {
			if !consumed[idx] {
				leftovers = append(leftovers, packet)
			}
		}

		if len(leftovers) > 0 && v.Field(i).CanSet() {
			v.Field(i).Set(reflect.ValueOf(leftovers))
		}
		return nil
	}
	return nil
}

// GetValue scans raw BER-TLV data for a specific tag and returns its
// payload, re-encoded if the tag is constructed.
func GetValue(data []byte, tag uint) ([]byte, error) {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, err
	}

	targetTag := strings.ToUpper(fmt.Sprintf("%X", tag))

	for _, p := range packets {
		if strings.ToUpper(p.Tag) == targetTag {
			if len(p.TLVs) > 0 {
				return bertlv.Encode(p.TLVs)
			}
			return p.Value, nil
		}
	}
	return nil, fmt.Errorf("tag %s not found", targetTag)
}
