// Package adapters renders decoded replays through third-party encoders for
// tools that consume a Replay as plain data.
package adapters

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/alpkeskin/gotoon"

	"github.com/reallyoldfogie/rl-replay-go/rlreplay"
)

// JSON encodes r. Header properties keep their decode order and QWord values
// are emitted as decimal strings.
func JSON(r *rlreplay.Replay, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}

// toonProperty is one header property. Property maps become lists of these so
// the encoder cannot reorder them.
type toonProperty struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type toonReplay struct {
	HeaderSize    uint32                   `json:"headerSize"`
	CRC           string                   `json:"crc"`
	Version       string                   `json:"version"`
	Label         string                   `json:"label"`
	Header        []toonProperty           `json:"header"`
	Maps          []string                 `json:"maps"`
	KeyFrames     []rlreplay.KeyFrame      `json:"keyFrames"`
	DebugLog      []rlreplay.DebugLogEntry `json:"debugLog"`
	GoalFrames    []rlreplay.GoalFrame     `json:"goalFrames"`
	Packages      []string                 `json:"packages"`
	Objects       []string                 `json:"objects"`
	Names         []string                 `json:"names"`
	ClassIndexMap any                      `json:"classIndexMap"`
	NetCache      any                      `json:"netCache"`
}

// TOON encodes r in the token-oriented TOON notation. It carries the same
// fields as JSON; header properties are listed as name/value pairs in decode
// order.
func TOON(r *rlreplay.Replay) (string, error) {
	doc := toonReplay{
		HeaderSize: r.HeaderSize,
		CRC:        r.CRC,
		Version:    r.Version,
		Label:      r.Label,
		Header:     toonProperties(r.Header),
		Maps:       r.Maps,
		KeyFrames:  r.KeyFrames,
		DebugLog:   r.DebugLog,
		GoalFrames: r.GoalFrames,
		Packages:   r.Packages,
		Objects:    r.Objects,
		Names:      r.Names,
	}
	var err error
	if doc.ClassIndexMap, err = generic(r.ClassIndexMap); err != nil {
		return "", err
	}
	if doc.NetCache, err = generic(r.NetCache); err != nil {
		return "", err
	}
	out, err := gotoon.Encode(doc)
	if err != nil {
		return "", fmt.Errorf("encode toon: %w", err)
	}
	return out, nil
}

func toonProperties(p rlreplay.PropertyMap) []toonProperty {
	props := make([]toonProperty, 0, p.Len())
	p.Each(func(name string, v rlreplay.PropertyValue) {
		props = append(props, toonProperty{Name: name, Value: toonValue(v)})
	})
	return props
}

func toonValue(v rlreplay.PropertyValue) any {
	switch v.Kind {
	case rlreplay.KindBool:
		return v.Bool
	case rlreplay.KindInt:
		return v.Int
	case rlreplay.KindFloat:
		return v.Float
	case rlreplay.KindStr, rlreplay.KindName:
		return v.Str
	case rlreplay.KindByte:
		return map[string]string{v.Byte.Key: v.Byte.Value}
	case rlreplay.KindQWord:
		return strconv.FormatUint(v.QWord, 10)
	case rlreplay.KindArray:
		elems := make([]any, 0, len(v.Array))
		for _, m := range v.Array {
			elems = append(elems, toonProperties(m))
		}
		return elems
	}
	return nil
}

// generic reduces v to plain JSON values (string-keyed maps, slices, numbers).
func generic(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal replay: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("unmarshal replay: %w", err)
	}
	return out, nil
}
