package wlserial

import (
	"strings"

	"github.com/unkn0wn-root/wlserial/symbols"
)

// Item is a decoded item serial. It holds no reference back to the codec;
// callers own it and may edit it freely before encoding again.
type Item struct {
	Version  byte   `json:"version"`
	Seed     uint32 `json:"seed"`
	Checksum uint16 `json:"checksum"`
	// Schema selects the bit widths the symbol table hands out.
	Schema uint8 `json:"schema"`

	Balance       string `json:"balance"`
	InventoryData string `json:"inventory_data"`
	Manufacturer  string `json:"manufacturer"`
	Level         uint8  `json:"level"`

	// Category is the part category derived from Balance. Empty means the
	// item type is not recognized and its parts were not parsed.
	Category string `json:"category,omitempty"`

	Parts        []string `json:"parts"`
	GenericParts []string `json:"generic_parts"`
	ExtraBytes   []byte   `json:"extra_bytes"`
	Rerolls      uint8    `json:"rerolls"`
	Tier         uint8    `json:"tier"`

	Name string `json:"name,omitempty"`
	// Raw is the serial this item was decoded from. Encode returns it verbatim
	// for unrecognized item types.
	Raw []byte `json:"raw,omitempty"`
}

// FromBalance builds a partless item of the newest version and schema.
// balance may be long or short form.
func FromBalance(t symbols.Table, balance string) *Item {
	long := t.Canonical(symbols.Balances, balance)
	cat, _ := t.CategoryFor(long)
	short := symbols.ShortName(long)
	return &Item{
		Version:      latestVersion,
		Schema:       uint8(min(t.MaxSchema(), maxSchemaBits)),
		Balance:      long,
		Level:        minLevel,
		Category:     cat,
		Parts:        []string{},
		GenericParts: []string{},
		ExtraBytes:   []byte{},
		Name:         short,
	}
}

// ShortBalance is the last dotted segment of Balance.
func (it *Item) ShortBalance() string { return symbols.ShortName(it.Balance) }

// Clone returns a deep copy.
func (it *Item) Clone() *Item {
	cp := *it
	cp.Parts = append([]string(nil), it.Parts...)
	cp.GenericParts = append([]string(nil), it.GenericParts...)
	cp.ExtraBytes = append([]byte(nil), it.ExtraBytes...)
	cp.Raw = append([]byte(nil), it.Raw...)
	return &cp
}

// SetLevel clamps lvl into the range a serial can carry.
func (it *Item) SetLevel(lvl int) {
	it.Level = uint8(max(minLevel, min(lvl, maxLevel)))
}

// SetBalance changes the item type and re-derives its category. Parts of the
// previous category are kept; Encode drops the ones that no longer resolve.
func (it *Item) SetBalance(t symbols.Table, balance string) {
	it.Balance = t.Canonical(symbols.Balances, balance)
	it.Category, _ = t.CategoryFor(it.Balance)
}

// PartList selects one of an item's two part lists.
type PartList int

const (
	Parts PartList = iota
	GenericParts
)

func (k PartList) String() string {
	switch k {
	case Parts:
		return "parts"
	case GenericParts:
		return "generic_parts"
	default:
		return "unknown"
	}
}

// List returns a pointer to the selected list so callers can edit it in place.
func (it *Item) List(k PartList) *[]string {
	if k == GenericParts {
		return &it.GenericParts
	}
	return &it.Parts
}

// ListCategory is the symbol category the selected list resolves under.
func (it *Item) ListCategory(k PartList) string {
	if k == GenericParts {
		return symbols.GenericParts
	}
	return it.Category
}

// AddPart appends the long form of part to the selected list.
func (it *Item) AddPart(t symbols.Table, k PartList, part string) {
	l := it.List(k)
	*l = append(*l, t.Canonical(it.ListCategory(k), part))
}

// DuplicatePart appends a copy of the first entry whose short name is short.
// It reports whether one was found.
func (it *Item) DuplicatePart(k PartList, short string) bool {
	l := it.List(k)
	for _, p := range *l {
		if strings.EqualFold(symbols.ShortName(p), short) {
			*l = append(*l, p)
			return true
		}
	}
	return false
}

// RemovePart removes the first entry whose short name is short.
func (it *Item) RemovePart(k PartList, short string) bool {
	l := it.List(k)
	for i, p := range *l {
		if strings.EqualFold(symbols.ShortName(p), short) {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveParts removes every entry whose short name is in shorts and returns
// how many were removed.
func (it *Item) RemoveParts(k PartList, shorts ...string) int {
	drop := make(map[string]struct{}, len(shorts))
	for _, s := range shorts {
		drop[strings.ToLower(s)] = struct{}{}
	}
	l := it.List(k)
	kept := (*l)[:0]
	n := 0
	for _, p := range *l {
		if _, ok := drop[strings.ToLower(symbols.ShortName(p))]; ok {
			n++
			continue
		}
		kept = append(kept, p)
	}
	*l = kept
	return n
}

func (it *Item) ClearParts(k PartList) {
	*it.List(k) = []string{}
}

var tierNames = []string{"Normal", "Chaotic", "Volatile", "Primordial", "Ascended"}

// TierName names the item tier; unknown tiers are reported as "Normal".
func (it *Item) TierName() string {
	if int(it.Tier) < len(tierNames) {
		return tierNames[it.Tier]
	}
	return tierNames[0]
}

// ParseTier maps a tier name back to its value. Unknown names are Normal.
func ParseTier(name string) uint8 {
	for i, n := range tierNames {
		if strings.EqualFold(n, name) {
			return uint8(i)
		}
	}
	return 0
}
