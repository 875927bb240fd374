package wlserial

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/wlserial/codec"
)

// ToStruct exports it as a protobuf Struct for tools that exchange items over
// protobuf. Byte fields are base64 strings; Raw is included only when set.
func ToStruct(it *Item) (*structpb.Struct, error) {
	m := map[string]any{
		"version":        float64(it.Version),
		"seed":           float64(it.Seed),
		"checksum":       float64(it.Checksum),
		"schema":         float64(it.Schema),
		"balance":        it.Balance,
		"inventory_data": it.InventoryData,
		"manufacturer":   it.Manufacturer,
		"level":          float64(it.Level),
		"category":       it.Category,
		"parts":          stringsToAny(it.Parts),
		"generic_parts":  stringsToAny(it.GenericParts),
		"extra_bytes":    base64.StdEncoding.EncodeToString(it.ExtraBytes),
		"rerolls":        float64(it.Rerolls),
		"tier":           float64(it.Tier),
		"name":           it.Name,
	}
	if len(it.Raw) > 0 {
		m["raw"] = base64.StdEncoding.EncodeToString(it.Raw)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("wlserial: item to struct: %w", err)
	}
	return s, nil
}

// FromStruct is the inverse of ToStruct.
func FromStruct(s *structpb.Struct) (*Item, error) {
	f := s.GetFields()
	extra, err := base64.StdEncoding.DecodeString(f["extra_bytes"].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("wlserial: struct extra_bytes: %w", err)
	}
	var raw []byte
	if v, ok := f["raw"]; ok {
		if raw, err = base64.StdEncoding.DecodeString(v.GetStringValue()); err != nil {
			return nil, fmt.Errorf("wlserial: struct raw: %w", err)
		}
	}
	num := func(k string) float64 { return f[k].GetNumberValue() }
	it := &Item{
		Version:       byte(num("version")),
		Seed:          uint32(num("seed")),
		Checksum:      uint16(num("checksum")),
		Schema:        uint8(num("schema")),
		Balance:       f["balance"].GetStringValue(),
		InventoryData: f["inventory_data"].GetStringValue(),
		Manufacturer:  f["manufacturer"].GetStringValue(),
		Level:         uint8(num("level")),
		Category:      f["category"].GetStringValue(),
		Parts:         anyToStrings(f["parts"].GetListValue()),
		GenericParts:  anyToStrings(f["generic_parts"].GetListValue()),
		ExtraBytes:    extra,
		Rerolls:       uint8(num("rerolls")),
		Tier:          uint8(num("tier")),
		Name:          f["name"].GetStringValue(),
		Raw:           raw,
	}
	return it, nil
}

// StructRecords is a record codec that stores items as deterministic
// protobuf Structs. DecodeCache accepts it in CacheOptions.Codec.
func StructRecords() codec.Codec[Item] {
	return structRecords{pb: codec.NewProtobuf(func() *structpb.Struct { return &structpb.Struct{} }, true)}
}

type structRecords struct {
	pb codec.Protobuf[*structpb.Struct]
}

func (r structRecords) Encode(it Item) ([]byte, error) {
	s, err := ToStruct(&it)
	if err != nil {
		return nil, err
	}
	return r.pb.Encode(s)
}

func (r structRecords) Decode(b []byte) (Item, error) {
	s, err := r.pb.Decode(b)
	if err != nil {
		return Item{}, err
	}
	it, err := FromStruct(s)
	if err != nil {
		return Item{}, err
	}
	return *it, nil
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func anyToStrings(l *structpb.ListValue) []string {
	vals := l.GetValues()
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		out = append(out, v.GetStringValue())
	}
	return out
}
