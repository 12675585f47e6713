// Package replaytest builds replay byte fixtures for tests.
//
// Encoder appends the wire encodings the decoder understands; File assembles
// a whole replay from plain values. Nothing here is used outside tests.
package replaytest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Encoder appends little-endian replay encodings to an in-memory buffer.
type Encoder struct {
	buf bytes.Buffer
}

// Bytes returns the encoded bytes.
func (e *Encoder) Bytes() []byte { return e.buf.Bytes() }

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return e.buf.Len() }

func (e *Encoder) U8(v uint8) *Encoder {
	e.buf.WriteByte(v)
	return e
}

func (e *Encoder) U32(v uint32) *Encoder {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
	return e
}

func (e *Encoder) U32BE(v uint32) *Encoder {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
	return e
}

func (e *Encoder) F32(v float32) *Encoder {
	return e.U32(math.Float32bits(v))
}

// String writes a length-prefixed, null-terminated string.
func (e *Encoder) String(s string) *Encoder {
	e.U32(uint32(len(s) + 1))
	e.buf.WriteString(s)
	e.buf.WriteByte(0)
	return e
}

func (e *Encoder) Raw(b []byte) *Encoder {
	e.buf.Write(b)
	return e
}

// Prop writes one property record. The declared size is the payload length,
// followed by a zero reserved word.
func (e *Encoder) Prop(name, tag string, payload func(*Encoder)) *Encoder {
	var p Encoder
	if payload != nil {
		payload(&p)
	}
	e.String(name).String(tag).U32(uint32(p.Len())).U32(0)
	return e.Raw(p.Bytes())
}

// None writes the property list terminator.
func (e *Encoder) None() *Encoder { return e.String("None") }

func (e *Encoder) IntProp(name string, v int32) *Encoder {
	return e.Prop(name, "IntProperty", func(p *Encoder) { p.U32(uint32(v)) })
}

func (e *Encoder) BoolProp(name string, v bool) *Encoder {
	return e.Prop(name, "BoolProperty", func(p *Encoder) {
		if v {
			p.U8(1)
		} else {
			p.U8(0)
		}
	})
}

func (e *Encoder) FloatProp(name string, v float32) *Encoder {
	return e.Prop(name, "FloatProperty", func(p *Encoder) { p.F32(v) })
}

func (e *Encoder) StrProp(name, v string) *Encoder {
	return e.Prop(name, "StrProperty", func(p *Encoder) { p.String(v) })
}

func (e *Encoder) NameProp(name, v string) *Encoder {
	return e.Prop(name, "NameProperty", func(p *Encoder) { p.String(v) })
}

func (e *Encoder) ByteProp(name, key, value string) *Encoder {
	return e.Prop(name, "ByteProperty", func(p *Encoder) { p.String(key).String(value) })
}

// QWordProp writes v as big-endian high and low halves.
func (e *Encoder) QWordProp(name string, v uint64) *Encoder {
	return e.Prop(name, "QWordProperty", func(p *Encoder) {
		p.U32BE(uint32(v >> 32)).U32BE(uint32(v))
	})
}

// ArrayProp writes an array whose elements are property lists; each element
// function writes properties and the terminator is appended for it.
func (e *Encoder) ArrayProp(name string, elems ...func(*Encoder)) *Encoder {
	return e.Prop(name, "ArrayProperty", func(p *Encoder) {
		p.U32(uint32(len(elems)))
		for _, el := range elems {
			if el != nil {
				el(p)
			}
			p.None()
		}
	})
}
