package proxy

import (
	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/mapper"
	"github.com/nickkkcc/cartridge-go/wire"
)

// Option keys understood by the CRUD functions.
const (
	OptionTimeout   = "timeout"
	OptionFirst     = "first"
	OptionAfter     = "after"
	OptionBatchSize = "batch_size"
	OptionFields    = "fields"
)

type entry struct {
	key   string
	value any
}

// Options is an ordered set of named operation options. Setting a key
// twice keeps its first position and the last value. The first invalid
// setting is kept and reported by Err; later settings are ignored.
type Options struct {
	entries []entry
	err     error
}

func NewOptions() *Options {
	return &Options{}
}

func (o *Options) set(key string, value any) *Options {
	if o.err != nil {
		return o
	}
	for i := range o.entries {
		if o.entries[i].key == key {
			o.entries[i].value = value
			return o
		}
	}
	o.entries = append(o.entries, entry{key: key, value: value})
	return o
}

func (o *Options) fail(detail string) *Options {
	if o.err == nil {
		o.err = errors.InvalidInput(errors.PhaseConfig, detail)
	}
	return o
}

// WithTimeout sets the server-side operation timeout in milliseconds.
func (o *Options) WithTimeout(ms int) *Options {
	if ms <= 0 {
		return o.fail("timeout should be greater than 0")
	}
	return o.set(OptionTimeout, ms)
}

// WithFields limits the returned tuple fields.
func (o *Options) WithFields(names ...string) *Options {
	return o.set(OptionFields, names)
}

// Set stores an arbitrary option.
func (o *Options) Set(key string, value any) *Options {
	if key == "" {
		return o.fail("option name should not be empty")
	}
	return o.set(key, value)
}

// Get returns the value stored under key.
func (o *Options) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	for _, e := range o.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// Len returns the number of options set.
func (o *Options) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// Err returns the first invalid setting, if any.
func (o *Options) Err() error {
	if o == nil {
		return nil
	}
	return o.err
}

// Encode converts the options to a wire map in insertion order.
func (o *Options) Encode(r *mapper.Registry) (wire.Value, error) {
	if err := o.Err(); err != nil {
		return wire.Value{}, err
	}
	if o == nil {
		return wire.Map(), nil
	}
	pairs := make([]wire.Pair, len(o.entries))
	for i, e := range o.entries {
		v, err := r.Encode(e.value)
		if err != nil {
			return wire.Value{}, errors.WithPath(err, "options", e.key)
		}
		pairs[i] = wire.Pair{Key: wire.String(e.key), Value: v}
	}
	return wire.Map(pairs...), nil
}

// SelectOptions are the options of a select call.
type SelectOptions struct {
	Options
}

func NewSelectOptions() *SelectOptions {
	return &SelectOptions{}
}

// WithTimeout sets the server-side operation timeout in milliseconds.
func (o *SelectOptions) WithTimeout(ms int) *SelectOptions {
	o.Options.WithTimeout(ms)
	return o
}

// WithFirst limits the number of returned tuples.
func (o *SelectOptions) WithFirst(n int64) *SelectOptions {
	o.set(OptionFirst, n)
	return o
}

// WithAfter resumes the scan after the given tuple, usually the cursor of
// the previous page.
func (o *SelectOptions) WithAfter(tuple any) *SelectOptions {
	o.set(OptionAfter, tuple)
	return o
}

// WithBatchSize sets the number of tuples moved between storage and router
// nodes in one round.
func (o *SelectOptions) WithBatchSize(n int64) *SelectOptions {
	if n <= 0 {
		o.fail("batch size should be greater than 0")
		return o
	}
	o.set(OptionBatchSize, n)
	return o
}
