package rlreplay

import (
	"encoding/binary"
	"math"
)

// Cursor reads sequentially from an immutable byte slice. The read position is
// its only state; reads are not undoable.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a Cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Offset returns the current read position.
func (c *Cursor) Offset() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, newDecodeError(ErrBufferUnderrun, c.pos, "need %d bytes, have %d", n, c.Remaining())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16LE reads a little-endian uint16.
func (c *Cursor) ReadU16LE() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32LE reads a little-endian uint32.
func (c *Cursor) ReadU32LE() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU32BE reads a big-endian uint32.
func (c *Cursor) ReadU32BE() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadF32LE reads a little-endian IEEE 754 float32.
func (c *Cursor) ReadF32LE() (float32, error) {
	v, err := c.ReadU32LE()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadString reads a length-prefixed string. The length counts the trailing
// null terminator, which is not part of the returned value.
func (c *Cursor) ReadString() (string, error) {
	n, err := c.ReadU32LE()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(c.Remaining()) {
		return "", newDecodeError(ErrMalformedLength, c.pos-4, "string length %d exceeds remaining %d", n, c.Remaining())
	}
	if n == 0 {
		return "", nil
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b[:n-1]), nil
}

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Skip advances past n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.take(n)
	return err
}

// readCount reads a u32 element count and rejects it when count*minWidth bytes
// cannot remain in the buffer.
func (c *Cursor) readCount(minWidth int) (int, error) {
	start := c.pos
	n, err := c.ReadU32LE()
	if err != nil {
		return 0, err
	}
	if uint64(n)*uint64(minWidth) > uint64(c.Remaining()) {
		return 0, newDecodeError(ErrMalformedLength, start, "count %d needs at least %d bytes, have %d",
			n, uint64(n)*uint64(minWidth), c.Remaining())
	}
	return int(n), nil
}
