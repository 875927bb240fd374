package symbols

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/unkn0wn-root/wlserial/codec"
)

// Width is the bit width a category uses starting at Schema.
type Width struct {
	Schema uint32 `json:"schema" msgpack:"schema" cbor:"schema"`
	Bits   int    `json:"bits" msgpack:"bits" cbor:"bits"`
}

// Category is one partition of the symbol space. Assets are in index order;
// the first asset has wire index 1 (0 is reserved for "none").
type Category struct {
	Widths []Width  `json:"widths" msgpack:"widths" cbor:"widths"`
	Assets []string `json:"assets" msgpack:"assets" cbor:"assets"`
}

// Dataset is the serializable form of a symbol table.
type Dataset struct {
	Mode       string              `json:"mode,omitempty" msgpack:"mode,omitempty" cbor:"mode,omitempty"`
	Categories map[string]Category `json:"categories" msgpack:"categories" cbor:"categories"`
	// Balances maps a fully-qualified balance to its part category.
	Balances map[string]string `json:"balances" msgpack:"balances" cbor:"balances"`
	// Names maps a fully-qualified part or balance to a display name.
	Names map[string]string `json:"names,omitempty" msgpack:"names,omitempty" cbor:"names,omitempty"`
}

type category struct {
	widths []Width
	assets []string
	index  map[string]uint32
	short  map[string]string // lower(short name) -> long form
}

// Static is an immutable in-memory Table built from a Dataset.
type Static struct {
	mode      string
	maxSchema uint32
	cats      map[string]*category
	balances  map[string]string
	names     map[string]string
	fp        string
}

var (
	_ Table         = (*Static)(nil)
	_ Namer         = (*Static)(nil)
	_ Fingerprinter = (*Static)(nil)
)

// NewStatic validates ds and indexes it. ds is not retained.
func NewStatic(ds Dataset) (*Static, error) {
	s := &Static{
		mode:     ds.Mode,
		cats:     make(map[string]*category, len(ds.Categories)),
		balances: make(map[string]string, len(ds.Balances)),
		names:    make(map[string]string, len(ds.Names)),
	}
	for name, c := range ds.Categories {
		if len(c.Widths) == 0 {
			return nil, fmt.Errorf("symbols: category %q has no widths", name)
		}
		ws := append([]Width(nil), c.Widths...)
		sort.Slice(ws, func(i, j int) bool { return ws[i].Schema < ws[j].Schema })
		for _, w := range ws {
			if w.Bits < 0 || w.Bits > 32 {
				return nil, fmt.Errorf("symbols: category %q schema %d: invalid width %d", name, w.Schema, w.Bits)
			}
			if w.Schema > s.maxSchema {
				s.maxSchema = w.Schema
			}
		}
		cat := &category{
			widths: ws,
			assets: append([]string(nil), c.Assets...),
			index:  make(map[string]uint32, len(c.Assets)),
			short:  make(map[string]string, len(c.Assets)),
		}
		for i, a := range cat.assets {
			if _, dup := cat.index[a]; dup {
				return nil, fmt.Errorf("symbols: category %q: duplicate asset %q", name, a)
			}
			cat.index[a] = uint32(i + 1)
			k := strings.ToLower(ShortName(a))
			if _, seen := cat.short[k]; !seen {
				cat.short[k] = a
			}
		}
		s.cats[name] = cat
	}
	for b, k := range ds.Balances {
		s.balances[b] = k
	}
	for k, v := range ds.Names {
		s.names[k] = v
	}
	s.fp = fingerprint(ds.Mode, s.cats, s.balances, s.names)
	return s, nil
}

// fingerprint hashes everything a decode result depends on, in a fixed order.
func fingerprint(mode string, cats map[string]*category, balances, names map[string]string) string {
	d := xxhash.New()
	field := func(parts ...string) {
		for _, p := range parts {
			_, _ = d.WriteString(p)
			_, _ = d.Write([]byte{0})
		}
		_, _ = d.Write([]byte{1})
	}
	field("mode", mode)
	for _, name := range sortedKeys(cats) {
		c := cats[name]
		field("category", name)
		for _, w := range c.widths {
			field(strconv.FormatUint(uint64(w.Schema), 10), strconv.Itoa(w.Bits))
		}
		field(c.assets...)
	}
	for _, b := range sortedKeys(balances) {
		field("balance", b, balances[b])
	}
	for _, n := range sortedKeys(names) {
		field("name", n, names[n])
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load decodes a Dataset with any record codec and builds a Static table.
func Load(c codec.Codec[Dataset], raw []byte) (*Static, error) {
	ds, err := c.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("symbols: decode dataset: %w", err)
	}
	return NewStatic(ds)
}

// Fingerprint identifies the dataset contents. Equal datasets give equal
// fingerprints regardless of map order.
func (s *Static) Fingerprint() string { return s.fp }

// Mode reports the dataset mode the table was built for.
func (s *Static) Mode() string { return s.mode }

func (s *Static) MaxSchema() uint32 { return s.maxSchema }

func (s *Static) BitWidth(name string, schema uint32) (int, error) {
	c, ok := s.cats[name]
	if !ok {
		return 0, fmt.Errorf("symbols: unknown category %q", name)
	}
	// greatest declared schema <= requested
	i := sort.Search(len(c.widths), func(i int) bool { return c.widths[i].Schema > schema })
	if i == 0 {
		return 0, fmt.Errorf("symbols: category %q has no width for schema %d", name, schema)
	}
	return c.widths[i-1].Bits, nil
}

func (s *Static) IndexOf(name, symbol string) (uint32, bool) {
	c, ok := s.cats[name]
	if !ok {
		return 0, false
	}
	idx, ok := c.index[symbol]
	return idx, ok
}

func (s *Static) SymbolAt(name string, index uint32) (string, bool) {
	c, ok := s.cats[name]
	if !ok || index == 0 || int(index) > len(c.assets) {
		return "", false
	}
	return c.assets[index-1], true
}

func (s *Static) CategoryFor(balance string) (string, bool) {
	k, ok := s.balances[balance]
	if !ok {
		return "", false
	}
	if _, known := s.cats[k]; !known {
		return "", false
	}
	return k, true
}

func (s *Static) Canonical(name, symbol string) string {
	c, ok := s.cats[name]
	if !ok {
		return symbol
	}
	if _, exact := c.index[symbol]; exact {
		return symbol
	}
	if long, ok := c.short[strings.ToLower(ShortName(symbol))]; ok {
		return long
	}
	return symbol
}

func (s *Static) Symbols(name string) []string {
	c, ok := s.cats[name]
	if !ok {
		return nil
	}
	return append([]string(nil), c.assets...)
}

// NameFor returns the first display name found, scanning symbols in order.
func (s *Static) NameFor(symbols []string) (string, bool) {
	for _, sym := range symbols {
		if n, ok := s.names[sym]; ok && n != "" {
			return n, true
		}
	}
	return "", false
}
