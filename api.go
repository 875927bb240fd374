package wlserial

import (
	"errors"

	"github.com/unkn0wn-root/wlserial/codec"
	"github.com/unkn0wn-root/wlserial/symbols"
)

// Options configure a Codec. Only Symbols is required.
type Options struct {
	// Symbols is the table for the active mode. It is only read.
	Symbols symbols.Table
	// Namer resolves display names. Defaults to Symbols when it implements
	// symbols.Namer; otherwise items are named by their short balance.
	Namer symbols.Namer
	// Mode picks the text tag for EncodeText and the tags DecodeText accepts.
	Mode Mode

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used

	// KeepUnresolved makes Encode fail with a SymbolResolutionError on parts
	// the table cannot index, instead of dropping them.
	KeepUnresolved bool
}

// Codec converts between item serials and Items. It holds no mutable state
// and is safe for concurrent use when its table is.
type Codec struct {
	table          symbols.Table
	namer          symbols.Namer
	mode           Mode
	log            Logger
	hooks          Hooks
	keepUnresolved bool
	tables         string // fingerprint of table and namer; "" if unknown
}

func New(opts Options) (*Codec, error) {
	if opts.Symbols == nil {
		return nil, errors.New("wlserial: symbol table is required")
	}
	c := &Codec{
		table:          opts.Symbols,
		namer:          opts.Namer,
		mode:           opts.Mode,
		keepUnresolved: opts.KeepUnresolved,
	}
	if c.namer == nil {
		c.namer, _ = opts.Symbols.(symbols.Namer)
	}
	c.tables = fingerprintOf(c.table, c.namer)
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	return c, nil
}

// fingerprintOf identifies the symbol sources a decode depends on. A namer
// with its own fingerprint is appended; one that cannot be identified
// leaves the result empty.
func fingerprintOf(t symbols.Table, n symbols.Namer) string {
	tf, ok := t.(symbols.Fingerprinter)
	if !ok {
		return ""
	}
	fp := tf.Fingerprint()
	if n == nil {
		return fp
	}
	nf, ok := n.(symbols.Fingerprinter)
	if !ok {
		return ""
	}
	if nfp := nf.Fingerprint(); nfp != fp {
		fp += "." + nfp
	}
	return fp
}

func (c *Codec) Mode() Mode             { return c.mode }
func (c *Codec) Symbols() symbols.Table { return c.table }

// DecodeText decodes a TAG(base64) serial.
func (c *Codec) DecodeText(s string) (*Item, error) {
	b, err := c.mode.Unwrap(s)
	if err != nil {
		return nil, err
	}
	return c.Decode(b)
}

// EncodeText encodes it and wraps it with the codec's mode tag.
func (c *Codec) EncodeText(it *Item, seed uint32) (string, error) {
	b, err := c.Encode(it, seed)
	if err != nil {
		return "", err
	}
	return c.mode.Wrap(b), nil
}

// Serial adapts c to codec.Codec so items can be stored anywhere a record
// codec fits. Items are encoded with their own Seed.
func (c *Codec) Serial() codec.Codec[*Item] { return serialCodec{c} }

type serialCodec struct{ c *Codec }

func (s serialCodec) Encode(it *Item) ([]byte, error) {
	if it == nil {
		return nil, errors.New("wlserial: nil item")
	}
	return s.c.Encode(it, it.Seed)
}

func (s serialCodec) Decode(b []byte) (*Item, error) { return s.c.Decode(b) }
