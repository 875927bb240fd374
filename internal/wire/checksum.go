package wire

import "hash/crc32"

// crcTable is the IEEE CRC-32 table (zip/png polynomial).
var crcTable = crc32.MakeTable(crc32.IEEE)

// Checksum folds the CRC-32 of b into 16 bits: hi ^ lo.
func Checksum(b []byte) uint16 {
	h := crc32.Checksum(b, crcTable)
	return uint16(h>>16) ^ uint16(h&0xFFFF)
}

// SerialChecksum computes the checksum stored in a serial. The checksum field
// itself is replaced by 0xFFFF while hashing; packed is hashed in wire order.
func SerialChecksum(h Header, packed []byte) uint16 {
	buf := make([]byte, 0, HeaderSize+ChecksumSize+len(packed))
	buf = AppendHeader(buf, h)
	buf = append(buf, 0xFF, 0xFF)
	buf = append(buf, packed...)
	return Checksum(buf)
}
