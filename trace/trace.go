// Package trace carries timing events from the device to the host over the
// link-port UART.
//
// Each event travels in one frame laid out like a Klipper message block:
//
//	[length][0x10|seq][VLQ fields...][crc16 hi][crc16 lo][0x7E]
//
// length counts the whole frame. The fields are the event type, the clock
// and value as low/high 32-bit halves, and the aux word.
package trace

import "errors"

const (
	FrameHeaderSize  = 2
	FrameTrailerSize = 3
	FrameLengthMin   = FrameHeaderSize + FrameTrailerSize
	FrameLengthMax   = 64

	FramePositionLen = 0
	FramePositionSeq = 1

	FrameValueSync = 0x7E
	FrameDest      = 0x10
	FrameSeqMask   = 0x0F
)

var (
	ErrInvalidVLQ     = errors.New("invalid VLQ encoding")
	ErrBufferTooSmall = errors.New("buffer too small for VLQ")
	ErrFrameLength    = errors.New("frame length out of range")
	ErrBadSync        = errors.New("frame missing trailing sync byte")
	ErrBadDest        = errors.New("frame has wrong destination bits")
	ErrBadCRC         = errors.New("frame CRC mismatch")
)
