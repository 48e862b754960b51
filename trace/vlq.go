package trace

// appendVLQ appends v in Klipper's variable length encoding: 7 bits per
// byte, most significant first, high bit set on every byte but the last.
// Small negative numbers stay short because bit 6 of the first byte sign-extends.
func appendVLQ(dst []byte, v int32) []byte {
	if !(-(1<<26) <= v && v < (3<<26)) {
		dst = append(dst, byte((v>>28)&0x7F)|0x80)
	}
	if !(-(1<<19) <= v && v < (3<<19)) {
		dst = append(dst, byte((v>>21)&0x7F)|0x80)
	}
	if !(-(1<<12) <= v && v < (3<<12)) {
		dst = append(dst, byte((v>>14)&0x7F)|0x80)
	}
	if !(-(1<<5) <= v && v < (3<<5)) {
		dst = append(dst, byte((v>>7)&0x7F)|0x80)
	}
	return append(dst, byte(v&0x7F))
}

// appendUint32 appends v as an unsigned VLQ
func appendUint32(dst []byte, v uint32) []byte {
	return appendVLQ(dst, int32(v))
}

// appendUint64 appends v as two unsigned VLQs, low half first
func appendUint64(dst []byte, v uint64) []byte {
	dst = appendUint32(dst, uint32(v))
	return appendUint32(dst, uint32(v>>32))
}

// readVLQ decodes one VLQ from the front of data and advances data past it
func readVLQ(data *[]byte) (int32, error) {
	if len(*data) == 0 {
		return 0, ErrBufferTooSmall
	}

	c := uint32((*data)[0])
	*data = (*data)[1:]

	v := c & 0x7F
	if c&0x60 == 0x60 {
		v |= ^uint32(0x1F)
	}

	for n := 1; c&0x80 != 0; n++ {
		if n == 5 {
			return 0, ErrInvalidVLQ
		}
		if len(*data) == 0 {
			return 0, ErrBufferTooSmall
		}
		c = uint32((*data)[0])
		*data = (*data)[1:]
		v = (v << 7) | (c & 0x7F)
	}

	return int32(v), nil
}

// readUint32 decodes an unsigned VLQ
func readUint32(data *[]byte) (uint32, error) {
	v, err := readVLQ(data)
	return uint32(v), err
}

// readUint64 decodes a value written by appendUint64
func readUint64(data *[]byte) (uint64, error) {
	lo, err := readUint32(data)
	if err != nil {
		return 0, err
	}
	hi, err := readUint32(data)
	if err != nil {
		return 0, err
	}
	return uint64(hi)<<32 | uint64(lo), nil
}
