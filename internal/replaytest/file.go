package replaytest

import (
	"os"
	"path/filepath"
	"testing"
)

type KeyFrame struct {
	Time     float32
	Frame    uint32
	Position uint32
}

type DebugLog struct {
	Frame  uint32
	Player string
	Data   string
}

type Goal struct {
	Type  string
	Frame uint32
}

type Class struct {
	Name string
	ID   uint32
}

// Cache is one class net cache record. Pairs are (propertyIndex, mappedIndex).
type Cache struct {
	ClassID       uint32
	ParentCacheID uint32
	CacheID       uint32
	Pairs         [][2]uint32
}

// File describes a replay to encode. Header writes the header properties; the
// terminator is appended automatically.
type File struct {
	CRC       uint32
	Major     uint32
	Minor     uint32
	Label     string
	Header    func(*Encoder)
	Reserved  [2]uint32
	Maps      []string
	KeyFrames []KeyFrame
	NetStream []byte
	DebugLog  []DebugLog
	Goals     []Goal
	Packages  []string
	Objects   []string
	Names     []string
	Classes   []Class
	Caches    []Cache
}

// Sample returns a small but complete replay description.
func Sample() File {
	return File{
		CRC:   0x59f93396,
		Major: 868,
		Minor: 17,
		Label: "TAGame.Replay_Soccar_TA",
		Header: func(e *Encoder) {
			e.IntProp("TeamSize", 3).
				StrProp("Id", "5A7F8C5E4E0F4A1B9E1C0D2B3A4F5E6D").
				NameProp("MapName", "stadium_p").
				QWordProp("OnlineID", 76561198012345678).
				ArrayProp("Goals",
					func(e *Encoder) { e.IntProp("frame", 441).StrProp("PlayerName", "alpha").IntProp("PlayerTeam", 0) },
					func(e *Encoder) { e.IntProp("frame", 1210).StrProp("PlayerName", "bravo").IntProp("PlayerTeam", 1) },
				).
				FloatProp("RecordFPS", 30).
				BoolProp("bUnfairBots", false).
				ByteProp("Platform", "OnlinePlatform", "OnlinePlatform_Steam")
		},
		Maps:      []string{"stadium_p"},
		KeyFrames: []KeyFrame{{Time: 0, Frame: 0, Position: 0}, {Time: 10.5, Frame: 315, Position: 4}},
		NetStream: []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02},
		DebugLog:  []DebugLog{{Frame: 12, Player: "alpha", Data: "connected"}},
		Goals:     []Goal{{Type: "Team0Goal", Frame: 441}, {Type: "Team1Goal", Frame: 1210}},
		Packages:  []string{"Engine", "TAGame"},
		Objects:   []string{"Engine.Actor", "TAGame.Ball_TA", "TAGame.Car_TA"},
		Names:     []string{"None", "Location"},
		Classes:   []Class{{Name: "Engine.Actor", ID: 0}, {Name: "TAGame.Ball_TA", ID: 1}, {Name: "TAGame.Car_TA", ID: 2}},
		// File order: root, child, grandchild.
		Caches: []Cache{
			{ClassID: 0, ParentCacheID: 0, CacheID: 0, Pairs: [][2]uint32{{4, 0}}},
			{ClassID: 1, ParentCacheID: 0, CacheID: 1, Pairs: [][2]uint32{{5, 2}, {6, 1}}},
			{ClassID: 2, ParentCacheID: 1, CacheID: 2, Pairs: [][2]uint32{{7, 3}}},
		},
	}
}

func (f File) header() []byte {
	var body Encoder
	body.U32(f.Major).U32(f.Minor).String(f.Label)
	if f.Header != nil {
		f.Header(&body)
	}
	body.None()

	var e Encoder
	e.U32(uint32(body.Len())).U32BE(f.CRC).Raw(body.Bytes())
	return e.Bytes()
}

// MapsOffset is the byte offset of the map list count.
func (f File) MapsOffset() int {
	return len(f.header()) + 8
}

// Encode returns the replay bytes.
func (f File) Encode() []byte {
	var e Encoder
	e.Raw(f.header())
	e.U32(f.Reserved[0]).U32(f.Reserved[1])
	writeStrings(&e, f.Maps)
	e.U32(uint32(len(f.KeyFrames)))
	for _, kf := range f.KeyFrames {
		e.F32(kf.Time).U32(kf.Frame).U32(kf.Position)
	}
	e.U32(uint32(len(f.NetStream))).Raw(f.NetStream)
	e.U32(uint32(len(f.DebugLog)))
	for _, d := range f.DebugLog {
		e.U32(d.Frame).String(d.Player).String(d.Data)
	}
	e.U32(uint32(len(f.Goals)))
	for _, g := range f.Goals {
		e.String(g.Type).U32(g.Frame)
	}
	writeStrings(&e, f.Packages)
	writeStrings(&e, f.Objects)
	writeStrings(&e, f.Names)
	e.U32(uint32(len(f.Classes)))
	for _, c := range f.Classes {
		e.String(c.Name).U32(c.ID)
	}
	e.U32(uint32(len(f.Caches)))
	for _, c := range f.Caches {
		e.U32(c.ClassID).U32(c.ParentCacheID).U32(c.CacheID).U32(uint32(len(c.Pairs)))
		for _, p := range c.Pairs {
			e.U32(p[0]).U32(p[1])
		}
	}
	return e.Bytes()
}

// WriteFile encodes f into dir/name and returns the path.
func (f File) WriteFile(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, f.Encode(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func writeStrings(e *Encoder, ss []string) {
	e.U32(uint32(len(ss)))
	for _, s := range ss {
		e.String(s)
	}
}
