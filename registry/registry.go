// Package registry implements MessageRegistry (spec.md §4.6): an ordered,
// dual-indexed catalog of message.Message definitions, built once from a
// schema document and then consulted read-only.
package registry

import (
	"fmt"

	"github.com/arloliu/cbc/errs"
	"github.com/arloliu/cbc/log"
	"github.com/arloliu/cbc/message"
)

type keyDir struct {
	key int
	dir message.Direction
}

// Registry holds an ordered collection of Message entries with unique-by-
// name and unique-by-(message_key, direction) indices. It is safe for
// concurrent readers once built; mutation after the first read is the
// caller's responsibility to avoid (spec.md §5).
type Registry struct {
	order            []*message.Message
	byName           map[string]*message.Message
	byKey            map[keyDir]*message.Message
	lenientKeyRanges bool
	logger           log.Logger
}

type config struct {
	lenientKeyRanges bool
	logger           log.Logger
}

// Option configures a Registry at construction time.
type Option func(*config)

// WithLenientKeyRanges downgrades message_key range-conflict rejection
// (spec.md §4.6) to a logged warning instead of a construction-time error.
// The default is strict rejection.
func WithLenientKeyRanges() Option {
	return func(c *config) { c.lenientKeyRanges = true }
}

// WithLogger supplies a logger for lenient-mode warnings. Defaults to
// log.Nop{}.
func WithLogger(l log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// New constructs an empty Registry.
func New(opts ...Option) (*Registry, error) {
	cfg := &config{logger: log.Nop{}}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Registry{
		byName:           make(map[string]*message.Message),
		byKey:            make(map[keyDir]*message.Message),
		lenientKeyRanges: cfg.lenientKeyRanges,
		logger:           cfg.logger,
	}, nil
}

// Insert adds m to the registry. It fails if m's name or (message_key,
// direction) pair is already registered, or — in strict mode — if
// message_key conflicts with one of m's advisory range flags.
func (r *Registry) Insert(m *message.Message) error {
	if _, dup := r.byName[m.Name()]; dup {
		return fmt.Errorf("%w: name %q", errs.ErrDuplicateMessage, m.Name())
	}
	kd := keyDir{key: m.MessageKey(), dir: m.Direction()}
	if _, dup := r.byKey[kd]; dup {
		return fmt.Errorf("%w: message_key %d direction %s", errs.ErrDuplicateMessage, m.MessageKey(), m.Direction())
	}

	if violations := keyRangeViolations(m); len(violations) > 0 {
		if !r.lenientKeyRanges {
			return fmt.Errorf("%w: message %q: %v", errs.ErrMessageKeyRange, m.Name(), violations)
		}
		for _, v := range violations {
			r.logger.Log(log.LevelWarn, "message_key range conflict", log.Fields{
				"message":     m.Name(),
				"message_key": m.MessageKey(),
				"conflict":    v,
			})
		}
	}

	r.byName[m.Name()] = m
	r.byKey[kd] = m
	r.order = append(r.order, m)

	return nil
}

// keyRangeViolations reports every advisory-flag/message_key conflict
// spec.md §4.6's table names.
func keyRangeViolations(m *message.Message) []string {
	var violations []string
	key := m.MessageKey()
	if m.CoapCompatible() && key < 49152 {
		violations = append(violations, "coap_compatible requires key >= 49152")
	}
	if !m.VsatReserved() && key > 65279 {
		violations = append(violations, "vsat_reserved=false requires key <= 65279")
	}
	if m.NimoCompatible() && (key < 32768 || key >= 65280) {
		violations = append(violations, "nimo_compatible requires key in [32768, 65280)")
	}

	return violations
}

// ByName looks up a Message by its unique name.
func (r *Registry) ByName(name string) (*message.Message, error) {
	m, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: name %q", errs.ErrMessageNotFound, name)
	}

	return m, nil
}

// ByKey looks up a Message by its (message_key, direction) pair.
func (r *Registry) ByKey(key int, dir message.Direction) (*message.Message, error) {
	m, ok := r.byKey[keyDir{key: key, dir: dir}]
	if !ok {
		return nil, fmt.Errorf("%w: key %d direction %s", errs.ErrMessageNotFound, key, dir)
	}

	return m, nil
}

// All returns every registered Message in insertion order. The returned
// slice is owned by the caller; mutating it does not affect the registry.
func (r *Registry) All() []*message.Message {
	out := make([]*message.Message, len(r.order))
	copy(out, r.order)

	return out
}
