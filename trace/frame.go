package trace

import (
	"io"

	"gbatime/core"
)

// Frame is one decoded trace frame
type Frame struct {
	Seq   uint8
	Event core.TimingEvent
}

// AppendFrame appends the framed encoding of evt to dst
func AppendFrame(dst []byte, seq uint8, evt core.TimingEvent) []byte {
	start := len(dst)
	dst = append(dst, 0, FrameDest|(seq&FrameSeqMask))

	dst = appendUint32(dst, uint32(evt.EventType))
	dst = appendUint64(dst, evt.Clock)
	dst = appendUint64(dst, evt.Value)
	dst = appendUint32(dst, evt.Aux)

	dst[start+FramePositionLen] = byte(len(dst) - start + FrameTrailerSize)
	dst = appendCRC(dst, start)
	return append(dst, FrameValueSync)
}

// DecodeFrame checks and decodes one complete frame
func DecodeFrame(frame []byte) (Frame, error) {
	if len(frame) < FrameLengthMin || len(frame) > FrameLengthMax ||
		int(frame[FramePositionLen]) != len(frame) {
		return Frame{}, ErrFrameLength
	}
	if frame[len(frame)-1] != FrameValueSync {
		return Frame{}, ErrBadSync
	}

	seq := frame[FramePositionSeq]
	if seq&^FrameSeqMask != FrameDest {
		return Frame{}, ErrBadDest
	}

	body := frame[:len(frame)-FrameTrailerSize]
	crc := uint16(frame[len(frame)-3])<<8 | uint16(frame[len(frame)-2])
	if CRC16(body) != crc {
		return Frame{}, ErrBadCRC
	}

	fields := body[FrameHeaderSize:]
	var evt core.TimingEvent

	eventType, err := readUint32(&fields)
	if err != nil {
		return Frame{}, err
	}
	evt.EventType = uint8(eventType)
	if evt.Clock, err = readUint64(&fields); err != nil {
		return Frame{}, err
	}
	if evt.Value, err = readUint64(&fields); err != nil {
		return Frame{}, err
	}
	if evt.Aux, err = readUint32(&fields); err != nil {
		return Frame{}, err
	}

	return Frame{Seq: seq & FrameSeqMask, Event: evt}, nil
}

// Writer frames timing events onto a byte stream
type Writer struct {
	w   io.Writer
	seq uint8
	buf [FrameLengthMax]byte
}

// NewWriter creates a Writer on w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteEvent sends evt as one frame
func (w *Writer) WriteEvent(evt core.TimingEvent) error {
	frame := AppendFrame(w.buf[:0], w.seq, evt)
	w.seq = (w.seq + 1) & FrameSeqMask
	_, err := w.w.Write(frame)
	return err
}
