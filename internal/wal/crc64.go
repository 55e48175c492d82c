package wal

// crc64Poly is the CRC-64/ECMA polynomial the wire format is pinned to
// (spec §4.1): 0xC96C5795D7870F42, init 0, no input/output reflection,
// xorout 0. Go's standard library hash/crc64 package computes a
// different checksum under this same name and polynomial — its
// Checksum/Update unconditionally complement the running CRC before and
// after processing (crc = ^crc going in, ^crc coming out), which is the
// init=all-ones/xorout=all-ones convention used by CRC-64/XZ, not this
// format's init=0/xorout=0/no-reflect convention. The two produce
// different 64-bit sums for the same bytes, so reusing hash/crc64 here
// would make this implementation's on-disk checksums unreadable by any
// other implementation of this exact spec. The fix, per spec §9's own
// suggestion, is this direct, unreflected byte-at-a-time recurrence.
var crc64Table = buildCRC64Table(crc64Poly)

const crc64Poly = 0xC96C5795D7870F42

func buildCRC64Table(poly uint64) [256]uint64 {
	var table [256]uint64
	for i := 0; i < 256; i++ {
		crc := uint64(i) << 56
		for bit := 0; bit < 8; bit++ {
			if crc&(1<<63) != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

// crc64Sum computes CRC-64/ECMA (init 0, no reflect, xorout 0) over the
// concatenation of chunks, without ever materializing that concatenation.
func crc64Sum(chunks ...[]byte) uint64 {
	var crc uint64
	for _, chunk := range chunks {
		for _, b := range chunk {
			crc = (crc << 8) ^ crc64Table[byte(crc>>56)^b]
		}
	}
	return crc
}
