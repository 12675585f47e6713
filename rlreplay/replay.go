package rlreplay

import (
	"fmt"

	"github.com/google/uuid"
)

// Replay is a fully decoded replay file. It is built in one pass and never
// modified afterwards.
type Replay struct {
	HeaderSize   uint32      `json:"headerSize"`
	CRC          string      `json:"crc"`
	MajorVersion uint32      `json:"-"`
	MinorVersion uint32      `json:"-"`
	Version      string      `json:"version"` // "major.minor"
	Label        string      `json:"label"`
	Header       PropertyMap `json:"header"`

	Maps       []string        `json:"maps"`
	KeyFrames  []KeyFrame      `json:"keyFrames"`
	NetStream  []byte          `json:"-"` // opaque, copied verbatim
	DebugLog   []DebugLogEntry `json:"debugLog"`
	GoalFrames []GoalFrame     `json:"goalFrames"`

	Packages []string `json:"packages"`
	Objects  []string `json:"objects"`
	Names    []string `json:"names"`

	ClassIndexMap map[uint32]string  `json:"classIndexMap"`
	NetCache      *ClassNetCacheNode `json:"netCache"`
}

// KeyFrame is a seek point into the network stream.
type KeyFrame struct {
	Time     float32 `json:"time"`
	Frame    uint32  `json:"frame"`
	Position uint32  `json:"position"` // byte offset into NetStream
}

// DebugLogEntry is one line of the recorder's debug log.
type DebugLogEntry struct {
	Frame  uint32 `json:"frame"`
	Player string `json:"player"`
	Data   string `json:"data"`
}

// GoalFrame marks the frame at which a goal event was recorded.
type GoalFrame struct {
	Type  string `json:"type"`
	Frame uint32 `json:"frame"`
}

// ClassNetCacheNode maps a class's compact network indices to its property
// indices. Children are the caches of classes deriving from this one.
type ClassNetCacheNode struct {
	ClassID         uint32               `json:"classId"`
	ClassName       string               `json:"className,omitempty"`
	CacheID         uint32               `json:"cacheId"`
	ParentCacheID   uint32               `json:"parentCacheId"`
	PropertyMapping map[uint32]uint32    `json:"propertyMapping"` // mapped index -> property index
	Children        []*ClassNetCacheNode `json:"children"`
}

// Walk visits n and its descendants depth-first, parents before children.
func (n *ClassNetCacheNode) Walk(fn func(node *ClassNetCacheNode, depth int)) {
	type item struct {
		node  *ClassNetCacheNode
		depth int
	}
	stack := []item{{n, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(it.node, it.depth)
		for i := len(it.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.node.Children[i], it.depth + 1})
		}
	}
}

// ID parses the header "Id" property as a UUID.
func (r *Replay) ID() (uuid.UUID, error) {
	s, ok := r.Header.Str("Id")
	if !ok {
		return uuid.Nil, fmt.Errorf("rlreplay: header has no Id property")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("rlreplay: header Id %q: %w", s, err)
	}
	return id, nil
}
