// Package wlserial decodes and encodes the item serials stored in game save
// files: a versioned, bit-packed, lightly encrypted byte blob.
//
// Components:
//   - symbols.Table: the external symbol database. Maps (category, schema)
//     to bit widths and symbols to wire indices. Built once per Mode and
//     passed to New; never global.
//   - Codec: Decode/Encode between raw serials and Item records, plus the
//     TAG(base64) text form via DecodeText/EncodeText.
//   - DecodeCache: optional memoization of decoded items in a provider
//     (ristretto, bigcache, redis).
//
// Serial layout (big-endian):
//
//	version(1) | seed(u32) | cipher(seed, body)
//	body: checksum(u16) | 128(8) schema(7) balance(W) inv_data(W) manufacturer(W) level(7)
//	      parts.count(6) parts(W)* generics.count(4) generics(W)* extra.count(8) extra(8)*
//	      0(4) [reroll_count(8) if version >= 4] [item_tier(7) if bits remain]
//
// Usage:
//
//	table, _ := symbols.Load(codec.JSON[symbols.Dataset]{Strict: true}, raw)
//	c, _ := wlserial.New(wlserial.Options{Symbols: table, Mode: wlserial.ModeStandard})
//	it, err := c.DecodeText("WL(BQAAAAD...)")
//	it.SetLevel(40)
//	s, err := c.EncodeText(it, 0)
package wlserial
