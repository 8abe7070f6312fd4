// Package framer implements the three mutually-exclusive transport framing
// modes (spec.md §4.7): raw (no envelope), nim (a 2-byte big-endian
// message_key prefix), and coap (the codec output rides as a CoAP message
// payload, keyed by MessageID). The codec never parses or builds a CoAP
// header itself — that's left to the caller's CoAP library, per spec.md
// §1's scope note — so the coap path here only ever produces or consumes
// the (MessageID, Payload) pair plus, on decode, any CoAP options the
// caller wants surfaced.
package framer

import (
	"fmt"

	coapmsg "github.com/plgd-dev/go-coap/v2/message"

	"github.com/arloliu/cbc/bitbuffer"
	"github.com/arloliu/cbc/errs"
	"github.com/arloliu/cbc/message"
	"github.com/arloliu/cbc/registry"
)

// Mode names one of the three framing strategies.
type Mode string

const (
	ModeRaw  Mode = "raw"
	ModeNim  Mode = "nim"
	ModeCoap Mode = "coap"
)

// ModeFromFlags turns the boolean nim/coap flags a CLI surface typically
// exposes into a Mode, rejecting the combination spec.md §4.7 calls out as
// mutually exclusive.
func ModeFromFlags(nim, coap bool) (Mode, error) {
	if nim && coap {
		return "", errs.ErrMutuallyExclusiveFraming
	}
	if nim {
		return ModeNim, nil
	}
	if coap {
		return ModeCoap, nil
	}

	return ModeRaw, nil
}

// CoapEnvelope is the entire contract between this package and an external
// CoAP library: a MessageID, a Payload, and (for decode) the CoAP options
// the caller parsed off the wire that this package did not generate.
type CoapEnvelope struct {
	MessageID int
	Payload   []byte
	Options   coapmsg.Options
}

// EncodeRequest names the message to encode, either directly or by name
// looked up in a registry, plus the value to encode.
type EncodeRequest struct {
	Message *message.Message
	Name    string
	Value   map[string]any
}

// EncodeResult carries the framed output. Bytes is populated for raw/nim;
// Coap is populated for the coap mode.
type EncodeResult struct {
	Bytes []byte
	Coap  CoapEnvelope
}

// Encode resolves the target message, applies framing, and runs
// encode_fields (spec.md §4.7 "Encode dispatch"). reg may be nil if
// req.Message is supplied directly.
func Encode(reg *registry.Registry, req EncodeRequest, mode Mode) (EncodeResult, error) {
	m, err := resolveForEncode(reg, req)
	if err != nil {
		return EncodeResult{}, err
	}

	var buf []byte
	bitOffset := 0
	switch mode {
	case ModeRaw, ModeCoap:
		bitOffset = 0
	case ModeNim:
		buf, bitOffset, err = bitbuffer.AppendUint(nil, 0, uint64(m.MessageKey()), 16)
		if err != nil {
			return EncodeResult{}, err
		}
	default:
		return EncodeResult{}, fmt.Errorf("%w: framing mode %q", errs.ErrNotImplemented, mode)
	}

	buf, _, err = m.Encode(req.Value, buf, bitOffset)
	if err != nil {
		return EncodeResult{}, err
	}

	if mode == ModeCoap {
		return EncodeResult{Coap: CoapEnvelope{MessageID: m.MessageKey(), Payload: buf}}, nil
	}

	return EncodeResult{Bytes: buf}, nil
}

func resolveForEncode(reg *registry.Registry, req EncodeRequest) (*message.Message, error) {
	m := req.Message
	if m == nil {
		if reg == nil {
			return nil, fmt.Errorf("%w: no message or registry supplied", errs.ErrMessageNotFound)
		}
		resolved, err := reg.ByName(req.Name)
		if err != nil {
			return nil, err
		}
		m = resolved
	} else if req.Name != "" && req.Name != m.Name() {
		return nil, fmt.Errorf("%w: content name %q != message name %q", errs.ErrNameMismatch, req.Name, m.Name())
	}

	return m, nil
}

// DecodeSelector names how to resolve the target message for Decode: a
// direct reference, a unique name, or a (message_key, direction) pair —
// the last of which may omit message_key entirely under nim/coap framing,
// since the envelope supplies it.
type DecodeSelector struct {
	Message       *message.Message
	Name          string
	MessageKey    int
	HasMessageKey bool
	Direction     message.Direction
}

// DecodeOptions controls which optional fields Decode adds to its result.
type DecodeOptions struct {
	InclDir  bool
	InclKey  bool
	InclDesc bool
}

// DecodeResult is the {name, value} pair spec.md §4.7 describes, plus
// whichever optional fields DecodeOptions requested.
type DecodeResult struct {
	Name        string
	Direction   message.Direction
	MessageKey  int
	Description string
	Value       map[string]any
	CoapOptions map[int][]byte
}

// Decode peels the framing envelope, resolves the message, and runs
// decode_fields (spec.md §4.7 "Decode dispatch"). coap is only consulted
// (and must be non-nil) when mode == ModeCoap.
func Decode(reg *registry.Registry, buf []byte, mode Mode, sel DecodeSelector, opts DecodeOptions, coap *CoapEnvelope) (DecodeResult, error) {
	var envelopeKey int
	haveEnvelopeKey := false
	bitOffset := 0

	switch mode {
	case ModeRaw:
	case ModeNim:
		k, err := bitbuffer.ExtractUint(buf, 0, 16)
		if err != nil {
			return DecodeResult{}, err
		}
		envelopeKey, haveEnvelopeKey, bitOffset = int(k), true, 16
	case ModeCoap:
		if coap == nil {
			return DecodeResult{}, fmt.Errorf("%w: coap framing requires a CoapEnvelope", errs.ErrWrongType)
		}
		envelopeKey, haveEnvelopeKey = coap.MessageID, true
		buf = coap.Payload
		bitOffset = 0
	default:
		return DecodeResult{}, fmt.Errorf("%w: framing mode %q", errs.ErrNotImplemented, mode)
	}

	m, err := resolveForDecode(reg, sel, envelopeKey, haveEnvelopeKey)
	if err != nil {
		return DecodeResult{}, err
	}
	if haveEnvelopeKey && m.MessageKey() != envelopeKey {
		return DecodeResult{}, fmt.Errorf("%w: envelope key %d != message %q key %d", errs.ErrMessageKeyMismatch, envelopeKey, m.Name(), m.MessageKey())
	}

	value, _, err := m.Decode(buf, bitOffset)
	if err != nil {
		return DecodeResult{}, err
	}

	result := DecodeResult{Name: m.Name(), Value: value}
	if opts.InclDir {
		result.Direction = m.Direction()
	}
	if opts.InclKey {
		result.MessageKey = m.MessageKey()
	}
	if opts.InclDesc {
		result.Description = m.Description()
	}
	if mode == ModeCoap && coap != nil && len(coap.Options) > 0 {
		result.CoapOptions = unknownCoapOptions(coap.Options)
	}

	return result, nil
}

func resolveForDecode(reg *registry.Registry, sel DecodeSelector, envelopeKey int, haveEnvelopeKey bool) (*message.Message, error) {
	if sel.Message != nil {
		return sel.Message, nil
	}
	if reg == nil {
		return nil, fmt.Errorf("%w: no message or registry supplied", errs.ErrMessageNotFound)
	}
	if sel.Name != "" {
		return reg.ByName(sel.Name)
	}
	if haveEnvelopeKey {
		return reg.ByKey(envelopeKey, sel.Direction)
	}
	if sel.HasMessageKey {
		return reg.ByKey(sel.MessageKey, sel.Direction)
	}

	return nil, fmt.Errorf("%w: no selector (name, message_key, or envelope key) supplied", errs.ErrMessageNotFound)
}

// unknownCoapOptions exposes every CoAP option the caller's library parsed
// off the envelope, keyed by option number, as spec.md §4.7's decode
// dispatch step 5 requires.
func unknownCoapOptions(opts coapmsg.Options) map[int][]byte {
	out := make(map[int][]byte, len(opts))
	for _, o := range opts {
		out[int(o.ID)] = o.Value
	}

	return out
}
