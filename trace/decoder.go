package trace

import (
	"bufio"
	"io"
)

// Decoder reads trace frames from a byte stream. After a bad frame it skips
// to the next sync byte before trying again.
type Decoder struct {
	r   *bufio.Reader
	buf [FrameLengthMax]byte

	synchronized bool
	expectSeq    uint8
	started      bool

	frames  uint32
	dropped uint32
	errors  uint32
}

// NewDecoder creates a Decoder reading from r
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:            bufio.NewReader(r),
		synchronized: true,
	}
}

// Next returns the next frame. Framing errors are returned as they happen
// and decoding can continue with another call; io errors are final.
func (d *Decoder) Next() (Frame, error) {
	for {
		if !d.synchronized {
			if err := d.resync(); err != nil {
				return Frame{}, err
			}
		}

		b, err := d.r.ReadByte()
		if err != nil {
			return Frame{}, err
		}
		if b == FrameValueSync {
			continue
		}

		length := int(b)
		if length < FrameLengthMin || length > FrameLengthMax {
			return Frame{}, d.fail(ErrFrameLength, false)
		}

		frame := d.buf[:length]
		frame[FramePositionLen] = b
		if _, err := io.ReadFull(d.r, frame[1:]); err != nil {
			return Frame{}, err
		}

		f, err := DecodeFrame(frame)
		if err != nil {
			return Frame{}, d.fail(err, frame[length-1] == FrameValueSync)
		}

		d.track(f.Seq)
		return f, nil
	}
}

// resync discards input up to and including the next sync byte
func (d *Decoder) resync() error {
	if _, err := d.r.ReadBytes(FrameValueSync); err != nil {
		return err
	}
	d.synchronized = true
	return nil
}

// fail counts a framing error. atBoundary means the bytes consumed so far
// ended on a sync byte, so the next frame starts right after them.
func (d *Decoder) fail(err error, atBoundary bool) error {
	d.errors++
	d.synchronized = atBoundary
	return err
}

// track counts frames lost between consecutive sequence numbers
func (d *Decoder) track(seq uint8) {
	if d.started {
		d.dropped += uint32((seq - d.expectSeq) & FrameSeqMask)
	}
	d.started = true
	d.expectSeq = (seq + 1) & FrameSeqMask
	d.frames++
}

// DecoderStats counts decoded frames, frames missing from the sequence, and framing errors
type DecoderStats struct {
	Frames  uint32
	Dropped uint32
	Errors  uint32
}

// Stats returns the decoder counters
func (d *Decoder) Stats() DecoderStats {
	return DecoderStats{Frames: d.frames, Dropped: d.dropped, Errors: d.errors}
}
