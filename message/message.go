// Package message defines the Message type: a named, directional,
// key-addressed field list (spec.md §3 "Message", §4.5). A Message is
// immutable after construction; encode/decode of its body is delegated to
// its field.List.
package message

import (
	"fmt"

	"github.com/arloliu/cbc/errs"
	"github.com/arloliu/cbc/field"
)

// Direction is a message's traffic direction: UPLINK (mobile-originated)
// or DOWNLINK (mobile-terminated).
type Direction string

const (
	Uplink   Direction = "UPLINK"
	Downlink Direction = "DOWNLINK"
)

// Valid reports whether d is one of the two declared directions.
func (d Direction) Valid() bool {
	return d == Uplink || d == Downlink
}

// Message is an immutable codec definition: a name, a direction, a 16-bit
// dispatch key, an ordered field list, and advisory key-range flags
// (spec.md §4.6).
type Message struct {
	name           string
	description    string
	direction      Direction
	messageKey     int
	fields         field.List
	coapCompatible bool
	vsatReserved   bool
	nimoCompatible bool
}

// Options carries the advisory flags and description of a Message, broken
// out from the required positional constructor arguments for readability.
type Options struct {
	Description    string
	CoapCompatible bool // true in DefaultOptions
	VsatReserved   bool
	NimoCompatible bool
}

// DefaultOptions returns the spec.md §3 defaults: coap_compatible=true,
// vsat_reserved=false, nimo_compatible=false.
func DefaultOptions() Options {
	return Options{CoapCompatible: true}
}

// New constructs a Message. name must be non-empty; direction must be
// Uplink or Downlink; messageKey must fit in 16 bits; fields must have
// unique, non-empty names. Range-constraint enforcement against the
// advisory flags happens in the registry at insertion time, not here,
// since a standalone Message has no catalog context to validate against.
func New(name string, direction Direction, messageKey int, fields field.List, opts Options) (*Message, error) {
	if name == "" {
		return nil, errs.ErrEmptyName
	}
	if !direction.Valid() {
		return nil, fmt.Errorf("%w: message %q has invalid direction %q", errs.ErrWrongType, name, direction)
	}
	if messageKey < 0 || messageKey > 0xFFFF {
		return nil, fmt.Errorf("%w: message %q message_key %d must fit in 16 bits", errs.ErrInvalidSize, name, messageKey)
	}
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("message %q: %w", name, err)
	}

	return &Message{
		name:           name,
		description:    opts.Description,
		direction:      direction,
		messageKey:     messageKey,
		fields:         fields,
		coapCompatible: opts.CoapCompatible,
		vsatReserved:   opts.VsatReserved,
		nimoCompatible: opts.NimoCompatible,
	}, nil
}

func (m *Message) Name() string         { return m.name }
func (m *Message) Description() string  { return m.description }
func (m *Message) Direction() Direction { return m.direction }
func (m *Message) MessageKey() int      { return m.messageKey }
func (m *Message) Fields() field.List   { return m.fields }
func (m *Message) CoapCompatible() bool { return m.coapCompatible }
func (m *Message) VsatReserved() bool   { return m.vsatReserved }
func (m *Message) NimoCompatible() bool { return m.nimoCompatible }

// Encode appends the message's field list to buf starting at bitOffset.
// value keys by field name, as field.List.EncodeAll expects. Encoding works
// on a copy of buf; on failure buf is returned unchanged.
func (m *Message) Encode(value map[string]any, buf []byte, bitOffset int) ([]byte, int, error) {
	local := append([]byte(nil), buf...)
	out, next, err := m.fields.EncodeAll(value, local, bitOffset)
	if err != nil {
		return buf, bitOffset, err
	}

	return out, next, nil
}

// Decode reads the message's field list from buf starting at bitOffset.
func (m *Message) Decode(buf []byte, bitOffset int) (map[string]any, int, error) {
	return m.fields.DecodeAll(buf, bitOffset)
}

// ToJSON renders the message definition (not an encoded instance) as a
// camelCase-keyed document, mirroring the wire-independent schema-export
// shape of original_source's Message.to_json.
func (m *Message) ToJSON() map[string]any {
	out := map[string]any{
		"name":       m.name,
		"direction":  string(m.direction),
		"messageKey": m.messageKey,
	}
	if m.description != "" {
		out["description"] = m.description
	}
	if !m.coapCompatible {
		out["coapCompatible"] = m.coapCompatible
	}
	if m.vsatReserved {
		out["vsatReserved"] = m.vsatReserved
	}
	if m.nimoCompatible {
		out["nimoCompatible"] = m.nimoCompatible
	}

	return out
}
