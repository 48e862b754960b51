package trace

// CRC16 is the CCITT checksum used by Klipper message blocks
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b ^= uint8(crc & 0xFF)
		b ^= b << 4
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}

// appendCRC appends the checksum of dst[start:], high byte first
func appendCRC(dst []byte, start int) []byte {
	crc := CRC16(dst[start:])
	return append(dst, byte(crc>>8), byte(crc))
}
