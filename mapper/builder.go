package mapper

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/wire"
)

// Builder collects codecs during the configuration phase. It is not safe
// for concurrent use. Build freezes it; every registration after that fails
// with errors.ErrFrozen.
type Builder struct {
	encoders   map[reflect.Type]Encoder
	defaultEnc map[reflect.Type]bool
	user       []Decoder // registration order
	defaults   []Decoder // priority order
	opts       options
	frozen     atomic.Bool
}

// NewBuilder returns an empty builder.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{
		encoders:   make(map[reflect.Type]Encoder),
		defaultEnc: make(map[reflect.Type]bool),
		opts:       applyOptions(opts),
	}
}

// NewDefaultBuilder returns a builder preloaded with the default codec set.
func NewDefaultBuilder(opts ...Option) *Builder {
	b := NewBuilder(opts...)
	installDefaults(b)
	return b
}

// RegisterEncoder binds e to the exact type t. A later registration for the
// same type replaces the earlier one, defaults included.
func (b *Builder) RegisterEncoder(t reflect.Type, e Encoder) error {
	if b.frozen.Load() {
		return errors.Frozen("encoder for " + typeName(t))
	}
	if t == nil || e == nil {
		return errors.InvalidInput(errors.PhaseRegister, "encoder type and value must be non-nil")
	}
	if b.defaultEnc[t] {
		b.opts.logger.Debug("default encoder shadowed", zap.Stringer("type", t))
		delete(b.defaultEnc, t)
	}
	b.encoders[t] = e
	return nil
}

// RegisterDecoder adds d ahead of every decoder registered before it and
// ahead of all defaults.
func (b *Builder) RegisterDecoder(d Decoder) error {
	if b.frozen.Load() {
		return errors.Frozen("decoder")
	}
	if d == nil || d.Target() == nil {
		return errors.InvalidInput(errors.PhaseRegister, "decoder and its target must be non-nil")
	}
	b.user = append(b.user, d)
	return nil
}

// Register adds both directions of c. Decode-only codecs register no
// encoder.
func Register[T any](b *Builder, c Codec[T]) error {
	if c.CanEncode() {
		if err := b.RegisterEncoder(c.Target(), c); err != nil {
			return err
		}
	}
	return b.RegisterDecoder(c)
}

func (b *Builder) registerDefaultEncoder(t reflect.Type, e Encoder) {
	b.encoders[t] = e
	b.defaultEnc[t] = true
}

func (b *Builder) registerDefaultDecoder(d Decoder) {
	b.defaults = append(b.defaults, d)
}

func registerDefault[T any](b *Builder, c Codec[T]) {
	if c.CanEncode() {
		b.registerDefaultEncoder(c.Target(), c)
	}
	b.registerDefaultDecoder(c)
}

// Build freezes the builder and returns the immutable registry. Two user
// decoders claiming the same extension tag fail the build; all conflicts
// are reported together.
func (b *Builder) Build() (*Registry, error) {
	if !b.frozen.CompareAndSwap(false, true) {
		return nil, errors.Frozen("registry")
	}

	order := make([]Decoder, 0, len(b.user)+len(b.defaults))
	for i := len(b.user) - 1; i >= 0; i-- {
		order = append(order, b.user[i])
	}

	var err error
	owners := make(map[int8]Decoder)
	for _, d := range order {
		for _, tag := range extTags(d) {
			if prev, ok := owners[tag]; ok {
				err = multierr.Append(err, errors.Duplicate(fmt.Sprintf(
					"extension tag %d claimed by decoders for %s and %s", tag, typeName(prev.Target()), typeName(d.Target()))))
				continue
			}
			owners[tag] = d
		}
	}
	if err != nil {
		return nil, err
	}

	for _, d := range b.defaults {
		for _, tag := range extTags(d) {
			if u, ok := owners[tag]; ok {
				b.opts.logger.Debug("default decoder shadowed",
					zap.Int8("ext", tag),
					zap.Stringer("default", d.Target()),
					zap.Stringer("user", u.Target()))
			}
		}
	}
	order = append(order, b.defaults...)

	encoders := make(map[reflect.Type]Encoder, len(b.encoders))
	for t, e := range b.encoders {
		encoders[t] = e
	}

	r := newRegistry(encoders, order, b.opts)
	b.opts.logger.Debug("registry built",
		zap.Int("encoders", len(encoders)),
		zap.Int("user_decoders", len(b.user)),
		zap.Int("default_decoders", len(b.defaults)),
		zap.Bool("cache", !b.opts.noCache))
	return r, nil
}

func extTags(d Decoder) []int8 {
	h, ok := d.(ShapeHinter)
	if !ok {
		return nil
	}
	var tags []int8
	for _, s := range h.Shapes() {
		if s.Kind == wire.KindExt {
			tags = append(tags, s.ExtType)
		}
	}
	return tags
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
