package rlreplay

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/elliotchance/orderedmap/v2"
)

// PropertyKind tags the variant held by a PropertyValue.
type PropertyKind uint8

const (
	KindBool PropertyKind = iota + 1
	KindInt
	KindFloat
	KindStr
	KindName
	KindByte
	KindQWord
	KindArray
)

// Wire type tags.
const (
	tagBool  = "BoolProperty"
	tagInt   = "IntProperty"
	tagFloat = "FloatProperty"
	tagStr   = "StrProperty"
	tagName  = "NameProperty"
	tagByte  = "ByteProperty"
	tagQWord = "QWordProperty"
	tagArray = "ArrayProperty"

	noneProperty = "None"
)

func (k PropertyKind) String() string {
	switch k {
	case KindBool:
		return tagBool
	case KindInt:
		return tagInt
	case KindFloat:
		return tagFloat
	case KindStr:
		return tagStr
	case KindName:
		return tagName
	case KindByte:
		return tagByte
	case KindQWord:
		return tagQWord
	case KindArray:
		return tagArray
	default:
		return "UnknownProperty"
	}
}

// ByteValue is the payload of a ByteProperty: a single key/value pair.
type ByteValue struct {
	Key   string
	Value string
}

// PropertyValue is a decoded property. Only the field selected by Kind is set;
// Str holds the value of both StrProperty and NameProperty.
type PropertyValue struct {
	Kind  PropertyKind
	Bool  bool
	Int   int32
	Float float32
	Str   string
	Byte  ByteValue
	QWord uint64
	Array []PropertyMap
}

// Equal reports whether v and o hold the same variant and value.
func (v PropertyValue) Equal(o PropertyValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == o.Bool
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindStr, KindName:
		return v.Str == o.Str
	case KindByte:
		return v.Byte == o.Byte
	case KindQWord:
		return v.QWord == o.QWord
	case KindArray:
		if len(v.Array) != len(o.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	}
	return true
}

// MarshalJSON renders the value without its tag. QWord values are rendered as
// decimal strings so they survive consumers without 64-bit integers.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Bool)
	case KindInt:
		return json.Marshal(v.Int)
	case KindFloat:
		return json.Marshal(v.Float)
	case KindStr, KindName:
		return json.Marshal(v.Str)
	case KindByte:
		return json.Marshal(map[string]string{v.Byte.Key: v.Byte.Value})
	case KindQWord:
		return json.Marshal(strconv.FormatUint(v.QWord, 10))
	case KindArray:
		if v.Array == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Array)
	}
	return []byte("null"), nil
}

// PropertyMap maps property names to values, preserving decode order. A name
// decoded twice keeps its first position and its last value. The zero value is
// an empty, read-only map.
type PropertyMap struct {
	m *orderedmap.OrderedMap[string, PropertyValue]
}

// NewPropertyMap returns an empty PropertyMap.
func NewPropertyMap() PropertyMap {
	return PropertyMap{m: orderedmap.NewOrderedMap[string, PropertyValue]()}
}

// Set stores v under name.
func (p PropertyMap) Set(name string, v PropertyValue) {
	p.m.Set(name, v)
}

// Get returns the value stored under name.
func (p PropertyMap) Get(name string) (PropertyValue, bool) {
	if p.m == nil {
		return PropertyValue{}, false
	}
	return p.m.Get(name)
}

// Len returns the number of properties.
func (p PropertyMap) Len() int {
	if p.m == nil {
		return 0
	}
	return p.m.Len()
}

// Names returns property names in decode order.
func (p PropertyMap) Names() []string {
	names := make([]string, 0, p.Len())
	p.Each(func(name string, _ PropertyValue) {
		names = append(names, name)
	})
	return names
}

// Each calls fn for every property in decode order.
func (p PropertyMap) Each(fn func(name string, v PropertyValue)) {
	if p.m == nil {
		return
	}
	for el := p.m.Front(); el != nil; el = el.Next() {
		fn(el.Key, el.Value)
	}
}

// Int returns the IntProperty stored under name.
func (p PropertyMap) Int(name string) (int32, bool) {
	v, ok := p.Get(name)
	if !ok || v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

// Str returns the StrProperty or NameProperty stored under name.
func (p PropertyMap) Str(name string) (string, bool) {
	v, ok := p.Get(name)
	if !ok || (v.Kind != KindStr && v.Kind != KindName) {
		return "", false
	}
	return v.Str, true
}

// Equal reports whether p and o hold the same names, in the same order, with
// equal values.
func (p PropertyMap) Equal(o PropertyMap) bool {
	if p.Len() != o.Len() {
		return false
	}
	if p.Len() == 0 {
		return true
	}
	a, b := p.m.Front(), o.m.Front()
	for ; a != nil && b != nil; a, b = a.Next(), b.Next() {
		if a.Key != b.Key || !a.Value.Equal(b.Value) {
			return false
		}
	}
	return a == nil && b == nil
}

// MarshalJSON renders the map as a JSON object in decode order.
func (p PropertyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	p.Each(func(name string, v PropertyValue) {
		if err != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		var k, val []byte
		if k, err = json.Marshal(name); err != nil {
			return
		}
		if val, err = json.Marshal(v); err != nil {
			return
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeProperties reads properties until the "None" sentinel. depth counts the
// array properties enclosing this map.
func decodeProperties(c *Cursor, depth int, opts Options) (PropertyMap, error) {
	props := NewPropertyMap()
	for {
		name, v, end, err := decodeProperty(c, depth, opts)
		if err != nil {
			return PropertyMap{}, err
		}
		if end {
			return props, nil
		}
		props.Set(name, v)
	}
}

// decodeProperty reads one property record. end is true when the record is the
// "None" terminator, in which case nothing past its name is consumed.
func decodeProperty(c *Cursor, depth int, opts Options) (name string, v PropertyValue, end bool, err error) {
	if name, err = c.ReadString(); err != nil {
		return "", v, false, err
	}
	if name == noneProperty {
		return "", v, true, nil
	}
	tagOffset := c.Offset()
	tag, err := c.ReadString()
	if err != nil {
		return "", v, false, err
	}
	// Declared size and a reserved word; each value's width decides consumption.
	if err = c.Skip(8); err != nil {
		return "", v, false, err
	}

	switch tag {
	case tagBool:
		var b uint8
		b, err = c.ReadU8()
		v = PropertyValue{Kind: KindBool, Bool: b == 1}
	case tagInt:
		var n uint32
		n, err = c.ReadU32LE()
		v = PropertyValue{Kind: KindInt, Int: int32(n)}
	case tagFloat:
		var f float32
		f, err = c.ReadF32LE()
		v = PropertyValue{Kind: KindFloat, Float: f}
	case tagStr, tagName:
		var s string
		s, err = c.ReadString()
		v = PropertyValue{Kind: KindStr, Str: s}
		if tag == tagName {
			v.Kind = KindName
		}
	case tagByte:
		var bv ByteValue
		if bv.Key, err = c.ReadString(); err == nil {
			bv.Value, err = c.ReadString()
		}
		v = PropertyValue{Kind: KindByte, Byte: bv}
	case tagQWord:
		var hi, lo uint32
		if hi, err = c.ReadU32BE(); err == nil {
			lo, err = c.ReadU32BE()
		}
		v = PropertyValue{Kind: KindQWord, QWord: uint64(hi)<<32 | uint64(lo)}
	case tagArray:
		v, err = decodeArray(c, depth, opts)
	default:
		de := newDecodeError(ErrUnsupportedPropertyType, tagOffset, "%q", tag)
		de.Tag = tag
		return "", v, false, de
	}
	if err != nil {
		return "", PropertyValue{}, false, err
	}
	return name, v, false, nil
}

// minPropertyMapWidth is the encoding of an empty map: the "None" terminator.
const minPropertyMapWidth = 4 + len(noneProperty) + 1

func decodeArray(c *Cursor, depth int, opts Options) (PropertyValue, error) {
	start := c.Offset()
	n, err := c.readCount(minPropertyMapWidth)
	if err != nil {
		return PropertyValue{}, err
	}
	if depth+1 > opts.maxArrayDepth() {
		return PropertyValue{}, newDecodeError(ErrNestingTooDeep, start, "limit %d", opts.maxArrayDepth())
	}
	elems := make([]PropertyMap, 0, n)
	for i := 0; i < n; i++ {
		m, err := decodeProperties(c, depth+1, opts)
		if err != nil {
			return PropertyValue{}, err
		}
		elems = append(elems, m)
	}
	return PropertyValue{Kind: KindArray, Array: elems}, nil
}
