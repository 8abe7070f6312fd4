// Package errs defines the typed error kinds shared by every CBC core
// package. Each kind wraps a comparable sentinel so callers can branch with
// errors.Is, while still carrying field/message-specific context added via
// fmt.Errorf("%w: ...", sentinel).
package errs

import "errors"

// Sentinel errors. Wrap these with context using fmt.Errorf("%w: ...", ...);
// never discard them, so errors.Is keeps working across the wrap.
var (
	// Schema errors: a static invariant of the field/message definition is
	// violated (bad size, duplicate enum value, duplicate name, conflicting
	// message_key, ...).
	ErrInvalidSize        = errors.New("cbc: invalid field size")
	ErrEmptyName          = errors.New("cbc: name must not be empty")
	ErrDuplicateName      = errors.New("cbc: duplicate name")
	ErrDuplicateEnumValue = errors.New("cbc: duplicate enum value")
	ErrEnumKeyRange       = errors.New("cbc: enum key out of range")
	ErrMessageKeyRange    = errors.New("cbc: message_key out of allowed range")
	ErrDuplicateMessage   = errors.New("cbc: duplicate message registration")

	// Input errors: the value passed to Encode does not conform to the
	// field/message contract.
	ErrMissingField    = errors.New("cbc: missing required field")
	ErrWrongType       = errors.New("cbc: value has wrong type for field")
	ErrUnknownEnumName = errors.New("cbc: unknown enum value name")
	ErrNotAMapping     = errors.New("cbc: expected a mapping value")
	ErrTooManyRows     = errors.New("cbc: row count exceeds field size")

	// Range errors: a numeric value cannot be represented in the field's bit
	// width.
	ErrOutOfRange = errors.New("cbc: value out of representable range")

	// Buffer errors: the buffer being decoded is malformed or too short.
	ErrBufferTooShort  = errors.New("cbc: buffer too short")
	ErrMalformedLength = errors.New("cbc: malformed length prefix")
	ErrUnknownOrdinal  = errors.New("cbc: decoded ordinal is not a declared enum key")
	ErrInvalidUTF8     = errors.New("cbc: invalid utf-8 in string field")

	// Framing errors.
	ErrMutuallyExclusiveFraming = errors.New("cbc: nim and coap framing are mutually exclusive")
	ErrMessageKeyMismatch       = errors.New("cbc: message_key mismatch between envelope and resolved message")
	ErrNameMismatch             = errors.New("cbc: content name does not match resolved message")

	// Lookup errors.
	ErrMessageNotFound = errors.New("cbc: message not found")

	// NotImplemented: a framing mode or feature is absent from this build
	// profile.
	ErrNotImplemented = errors.New("cbc: not implemented")

	// Expression errors.
	ErrInvalidExpression = errors.New("cbc: invalid calc expression")

	// Archive errors: the batch container spec.md does not describe, but
	// SPEC_FULL.md adds for narrowband store-and-forward relaying.
	ErrUnknownCompression = errors.New("cbc: unknown compression type")
	ErrChecksumMismatch   = errors.New("cbc: archive checksum mismatch")

	// Schema document errors: a declarative schema file (JSON or YAML)
	// could not be parsed or did not describe a valid codec definition.
	ErrUnsupportedSchemaFormat = errors.New("cbc: unsupported schema document format")
)

// Kind classifies an error into one of the taxonomy buckets named by the
// specification, for callers that want to branch on category rather than on
// a specific sentinel (e.g. deciding whether a failure is retryable).
type Kind int

const (
	KindUnknown Kind = iota
	KindSchema
	KindInput
	KindRange
	KindBuffer
	KindFraming
	KindNotImplemented
	KindArchive
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "SchemaError"
	case KindInput:
		return "InputError"
	case KindRange:
		return "RangeError"
	case KindBuffer:
		return "BufferError"
	case KindFraming:
		return "FramingError"
	case KindNotImplemented:
		return "NotImplemented"
	case KindArchive:
		return "ArchiveError"
	default:
		return "Unknown"
	}
}

var kindBySentinel = map[error]Kind{
	ErrInvalidSize:        KindSchema,
	ErrEmptyName:          KindSchema,
	ErrDuplicateName:      KindSchema,
	ErrDuplicateEnumValue: KindSchema,
	ErrEnumKeyRange:       KindSchema,
	ErrMessageKeyRange:    KindSchema,
	ErrDuplicateMessage:   KindSchema,

	ErrMissingField:    KindInput,
	ErrWrongType:       KindInput,
	ErrUnknownEnumName: KindInput,
	ErrNotAMapping:     KindInput,
	ErrTooManyRows:     KindInput,

	ErrOutOfRange: KindRange,

	ErrBufferTooShort:  KindBuffer,
	ErrMalformedLength: KindBuffer,
	ErrUnknownOrdinal:  KindBuffer,
	ErrInvalidUTF8:     KindBuffer,

	ErrMutuallyExclusiveFraming: KindFraming,
	ErrMessageKeyMismatch:       KindFraming,
	ErrNameMismatch:             KindFraming,
	ErrMessageNotFound:          KindFraming,

	ErrNotImplemented: KindNotImplemented,

	ErrUnknownCompression:      KindArchive,
	ErrChecksumMismatch:        KindArchive,
	ErrUnsupportedSchemaFormat: KindSchema,
}

// KindOf reports the taxonomy bucket of err by walking its wrap chain
// against the known sentinels. Returns KindUnknown if err matches none of
// them.
func KindOf(err error) Kind {
	for sentinel, kind := range kindBySentinel {
		if errors.Is(err, sentinel) {
			return kind
		}
	}

	return KindUnknown
}
