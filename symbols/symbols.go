// Package symbols defines the symbol-table gateway the serial codec consults:
// per-category bit widths keyed by schema version, and symbol <-> index
// lookups. Tables are read-only once built; one is constructed per active
// mode and shared by every codec call.
package symbols

import "strings"

const (
	Balances      = "InventoryBalanceData"
	InventoryData = "InventoryData"
	Manufacturers = "ManufacturerData"
	GenericParts  = "InventoryGenericPartData"
)

// Unknown marks an index the table could not resolve during decode. It can be
// displayed and removed but never encoded.
const Unknown = "<UNKNOWN>"

// Table is the gateway to an external symbol database.
// Implementations must be safe for concurrent reads.
type Table interface {
	// MaxSchema is the newest schema version the table has widths for.
	MaxSchema() uint32

	// BitWidth returns how many bits an index of category takes under schema.
	BitWidth(category string, schema uint32) (int, error)

	// IndexOf maps a fully-qualified symbol to its wire index.
	IndexOf(category, symbol string) (uint32, bool)

	// SymbolAt maps a wire index back to its fully-qualified symbol.
	SymbolAt(category string, index uint32) (string, bool)

	// CategoryFor returns the part category of a balance; false means the
	// item type is not recognized.
	CategoryFor(balance string) (string, bool)

	// Canonical expands a short or partial symbol to its long form within
	// category. Unresolvable input is returned unchanged.
	Canonical(category, symbol string) string

	// Symbols lists the fully-qualified symbols of category in index order.
	Symbols(category string) []string
}

// Namer resolves a display name from an item's parts and balance.
type Namer interface {
	NameFor(symbols []string) (string, bool)
}

// Fingerprinter is implemented by tables and namers that can identify their
// contents. The decode cache keys entries by it, so a republished dataset
// never serves items decoded with the previous one.
type Fingerprinter interface {
	Fingerprint() string
}

// ShortName returns the last dotted segment of a symbol.
func ShortName(symbol string) string {
	if i := strings.LastIndexByte(symbol, '.'); i >= 0 {
		return symbol[i+1:]
	}
	return symbol
}
