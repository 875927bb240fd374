package wlserial

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/wlserial/internal/bitstream"
	"github.com/unkn0wn-root/wlserial/internal/wire"
	"github.com/unkn0wn-root/wlserial/symbols"
)

const (
	latestVersion = 5
	rerollVersion = 4 // first version carrying reroll_count
	tierVersion   = 5 // first version encode writes item_tier for

	sentinel      = 128
	sentinelBits  = 8
	schemaBits    = 7
	maxSchemaBits = 1<<schemaBits - 1
	levelBits     = 7
	partCountBits = 6
	genCountBits  = 4
	extraCntBits  = 8
	extraBits     = 8
	customBits    = 4
	rerollBits    = 8
	tierBits      = 7
)

func supportedVersion(v byte) bool { return v >= 3 && v <= 5 }

// fieldReader names every read so truncation errors say where they happened.
type fieldReader struct {
	r *bitstream.Reader
}

func (f fieldReader) read(field string, width int) (uint32, error) {
	v, err := f.r.Read(width)
	if err != nil {
		return 0, &BitStreamUnderflowError{Field: field, Err: err}
	}
	return v, nil
}

func (c *Codec) width(category string, schema uint32) (int, error) {
	w, err := c.table.BitWidth(category, schema)
	if err != nil {
		return 0, fmt.Errorf("wlserial: bit width of %s: %w", category, err)
	}
	if w < 0 || w > bitstream.MaxWidth {
		return 0, fmt.Errorf("wlserial: bit width of %s: %d out of range", category, w)
	}
	return w, nil
}

// Decode parses a binary serial. It returns either a complete Item or an
// error, never a partially filled Item.
func (c *Codec) Decode(b []byte) (*Item, error) {
	it, err := c.decode(b)
	if err != nil {
		c.log.Debug("decode rejected", Fields{"err": err, "len": len(b)})
		return nil, err
	}
	return it, nil
}

func (c *Codec) decode(b []byte) (*Item, error) {
	if len(b) == 0 {
		return nil, &BitStreamUnderflowError{Field: "format_version", Err: wire.ErrShort}
	}
	if !supportedVersion(b[0]) {
		return nil, &UnsupportedVersionError{Version: b[0]}
	}
	h, enc, err := wire.ParseHeader(b)
	if err != nil {
		return nil, &BitStreamUnderflowError{Field: "seed", Err: err}
	}

	body := append([]byte(nil), enc...)
	wire.Decrypt(h.Seed, body)
	stored, packed, err := wire.SplitChecksum(body)
	if err != nil {
		return nil, &BitStreamUnderflowError{Field: "checksum", Err: err}
	}
	if computed := wire.SerialChecksum(h, packed); computed != stored {
		return nil, &ChecksumMismatchError{
			Raw:      append([]byte(nil), b...),
			Expected: stored,
			Computed: computed,
		}
	}

	fr := fieldReader{r: bitstream.NewReader(packed)}
	it := &Item{
		Version:  h.Version,
		Seed:     h.Seed,
		Checksum: stored,
		Raw:      append([]byte(nil), b...),
	}

	mark, err := fr.read("sentinel", sentinelBits)
	if err != nil {
		return nil, err
	}
	if mark != sentinel {
		c.log.Warn("unexpected serial sentinel", Fields{"got": mark, "want": sentinel})
		c.hooks.SentinelMismatch(mark)
	}

	schema, err := fr.read("schema_version", schemaBits)
	if err != nil {
		return nil, err
	}
	if newest := c.table.MaxSchema(); schema > newest {
		return nil, &UnsupportedSchemaError{Schema: schema, Max: newest}
	}
	it.Schema = uint8(schema)

	heads := []struct {
		field    string
		category string
		dst      *string
	}{
		{"balance", symbols.Balances, &it.Balance},
		{"inventory_data", symbols.InventoryData, &it.InventoryData},
		{"manufacturer", symbols.Manufacturers, &it.Manufacturer},
	}
	for _, hd := range heads {
		if *hd.dst, err = c.readSymbol(fr, hd.field, hd.category, schema); err != nil {
			return nil, err
		}
	}

	lvl, err := fr.read("level", levelBits)
	if err != nil {
		return nil, err
	}
	it.Level = uint8(lvl)

	cat, ok := c.table.CategoryFor(it.Balance)
	if !ok {
		// unrecognized item type: keep it opaque, Encode hands back Raw
		it.Parts, it.GenericParts, it.ExtraBytes = []string{}, []string{}, []byte{}
		it.Name = c.displayName(nil, it.Balance)
		return it, nil
	}
	it.Category = cat

	if it.Parts, err = c.readList(fr, "parts", cat, partCountBits, schema); err != nil {
		return nil, err
	}
	if it.GenericParts, err = c.readList(fr, "generic_parts", symbols.GenericParts, genCountBits, schema); err != nil {
		return nil, err
	}

	n, err := fr.read("extra_bytes.count", extraCntBits)
	if err != nil {
		return nil, err
	}
	it.ExtraBytes = make([]byte, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := fr.read("extra_bytes", extraBits)
		if err != nil {
			return nil, err
		}
		it.ExtraBytes = append(it.ExtraBytes, byte(v))
	}

	if err := c.readTrailing(fr, it); err != nil {
		return nil, err
	}
	if fr.r.Remaining() >= tierBits {
		tier, _ := fr.read("item_tier", tierBits)
		it.Tier = uint8(tier)
	}

	it.Name = c.displayName(it.Parts, it.Balance)
	return it, nil
}

// readTrailing reads the fields older serials may lack. Running out of bits
// leaves defaults in place; a nonzero customization count is still fatal.
func (c *Codec) readTrailing(fr fieldReader, it *Item) error {
	custom, err := fr.read("customization_count", customBits)
	if errors.Is(err, ErrUnderflow) {
		c.hooks.TrailingDefaulted("customization_count")
		return nil
	}
	if custom != 0 {
		return &UnexpectedDataError{Field: "customization_count", Value: custom}
	}
	if it.Version < rerollVersion {
		return nil
	}
	rr, err := fr.read("reroll_count", rerollBits)
	if errors.Is(err, ErrUnderflow) {
		c.hooks.TrailingDefaulted("reroll_count")
		return nil
	}
	it.Rerolls = uint8(rr)
	return nil
}

func (c *Codec) readSymbol(fr fieldReader, field, category string, schema uint32) (string, error) {
	w, err := c.width(category, schema)
	if err != nil {
		return "", err
	}
	idx, err := fr.read(field, w)
	if err != nil {
		return "", err
	}
	return c.symbolAt(category, idx), nil
}

func (c *Codec) readList(fr fieldReader, field, category string, countBits int, schema uint32) ([]string, error) {
	n, err := fr.read(field+".count", countBits)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	if n == 0 {
		return out, nil
	}
	w, err := c.width(category, schema)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		idx, err := fr.read(field, w)
		if err != nil {
			return nil, err
		}
		out = append(out, c.symbolAt(category, idx))
	}
	return out, nil
}

func (c *Codec) symbolAt(category string, idx uint32) string {
	if s, ok := c.table.SymbolAt(category, idx); ok {
		return s
	}
	c.hooks.UnknownSymbol(category, idx)
	return symbols.Unknown
}

func (c *Codec) displayName(parts []string, balance string) string {
	if c.namer != nil {
		syms := make([]string, 0, len(parts)+1)
		syms = append(syms, parts...)
		syms = append(syms, balance)
		if n, ok := c.namer.NameFor(syms); ok {
			return n
		}
	}
	return symbols.ShortName(balance)
}

// Normalize returns a copy of it with head symbols expanded to their long
// form, Category re-derived from Balance and, unless KeepUnresolved is set,
// parts the table cannot index under the current category removed.
func (c *Codec) Normalize(it *Item) *Item {
	n := it.Clone()
	n.Balance = c.table.Canonical(symbols.Balances, n.Balance)
	n.InventoryData = c.table.Canonical(symbols.InventoryData, n.InventoryData)
	n.Manufacturer = c.table.Canonical(symbols.Manufacturers, n.Manufacturer)
	n.Category, _ = c.table.CategoryFor(n.Balance)
	if n.Category == "" {
		return n
	}
	n.Parts = c.resolveParts(n.Category, n.Parts)
	n.GenericParts = c.resolveParts(symbols.GenericParts, n.GenericParts)
	return n
}

func (c *Codec) resolveParts(category string, parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		long := c.table.Canonical(category, p)
		if _, ok := c.table.IndexOf(category, long); !ok && !c.keepUnresolved {
			c.log.Debug("dropping unresolved part", Fields{"category": category, "part": p})
			c.hooks.PartDropped(category, p)
			continue
		}
		out = append(out, long)
	}
	return out
}

// Encode packs it into a binary serial encrypted with seed. it is not modified.
//
// Items whose type the table does not recognize but that were decoded from a
// serial are returned as the original bytes.
func (c *Codec) Encode(it *Item, seed uint32) ([]byte, error) {
	if it == nil {
		return nil, errors.New("wlserial: nil item")
	}
	n := c.Normalize(it)
	if n.Category == "" && len(it.Raw) > 0 {
		c.log.Debug("passing through unrecognized item", Fields{"balance": it.Balance})
		c.hooks.PassThrough(it.Balance)
		return append([]byte(nil), it.Raw...), nil
	}
	packed, err := c.pack(n)
	if err != nil {
		return nil, err
	}

	h := wire.Header{Version: n.Version, Seed: seed}
	body := wire.PrependChecksum(wire.SerialChecksum(h, packed), packed)
	wire.Encrypt(seed, body)

	out := make([]byte, 0, wire.HeaderSize+len(body))
	out = wire.AppendHeader(out, h)
	return append(out, body...), nil
}

func (c *Codec) pack(n *Item) ([]byte, error) {
	if !supportedVersion(n.Version) {
		return nil, &UnsupportedVersionError{Version: n.Version}
	}
	schema := uint32(n.Schema)
	if newest := c.table.MaxSchema(); schema > newest {
		return nil, &UnsupportedSchemaError{Schema: schema, Max: newest}
	}
	if err := checkRange("schema_version", uint64(schema), schemaBits); err != nil {
		return nil, err
	}
	if err := checkRange("level", uint64(n.Level), levelBits); err != nil {
		return nil, err
	}

	var w bitstream.Writer
	w.Write(sentinel, sentinelBits)
	w.Write(schema, schemaBits)

	heads := []struct{ category, symbol string }{
		{symbols.Balances, n.Balance},
		{symbols.InventoryData, n.InventoryData},
		{symbols.Manufacturers, n.Manufacturer},
	}
	for _, hd := range heads {
		if err := c.writeSymbol(&w, hd.category, hd.symbol, schema); err != nil {
			return nil, err
		}
	}
	w.Write(uint32(n.Level), levelBits)

	if n.Category == "" {
		return w.Bytes(), nil
	}

	if err := c.writeList(&w, "parts", n.Category, n.Parts, partCountBits, schema); err != nil {
		return nil, err
	}
	if err := c.writeList(&w, "generic_parts", symbols.GenericParts, n.GenericParts, genCountBits, schema); err != nil {
		return nil, err
	}

	if err := checkRange("extra_bytes.count", uint64(len(n.ExtraBytes)), extraCntBits); err != nil {
		return nil, err
	}
	w.Write(uint32(len(n.ExtraBytes)), extraCntBits)
	for _, b := range n.ExtraBytes {
		w.Write(uint32(b), extraBits)
	}

	// customization count; always zero
	w.Write(0, customBits)

	if n.Version >= rerollVersion {
		w.Write(uint32(n.Rerolls), rerollBits)
	}
	if n.Version >= tierVersion {
		if err := checkRange("item_tier", uint64(n.Tier), tierBits); err != nil {
			return nil, err
		}
		w.Write(uint32(n.Tier), tierBits)
	}
	return w.Bytes(), nil
}

func (c *Codec) writeSymbol(w *bitstream.Writer, category, symbol string, schema uint32) error {
	width, err := c.width(category, schema)
	if err != nil {
		return err
	}
	idx, ok := c.table.IndexOf(category, symbol)
	if !ok {
		return &SymbolResolutionError{Category: category, Symbol: symbol}
	}
	if err := checkRange(category+" index", uint64(idx), width); err != nil {
		return err
	}
	w.Write(idx, width)
	return nil
}

func (c *Codec) writeList(w *bitstream.Writer, field, category string, list []string, countBits int, schema uint32) error {
	if err := checkRange(field+".count", uint64(len(list)), countBits); err != nil {
		return err
	}
	w.Write(uint32(len(list)), countBits)
	for _, s := range list {
		if err := c.writeSymbol(w, category, s, schema); err != nil {
			return err
		}
	}
	return nil
}

func checkRange(field string, v uint64, bits int) error {
	if limit := uint64(1)<<uint(bits) - 1; v > limit {
		return &FieldRangeError{Field: field, Value: v, Max: limit}
	}
	return nil
}
