package rlreplay

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/reallyoldfogie/rl-replay-go/internal/replaytest"
)

func parseSample(t *testing.T) *Replay {
	t.Helper()
	r, err := Parse(replaytest.Sample().Encode())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return r
}

func TestParseCRCAndVersion(t *testing.T) {
	r := parseSample(t)
	if r.CRC != "59f93396" {
		t.Errorf("CRC = %q", r.CRC)
	}
	if r.Version != "868.17" {
		t.Errorf("Version = %q", r.Version)
	}
	if r.Label != "TAGame.Replay_Soccar_TA" {
		t.Errorf("Label = %q", r.Label)
	}
}

func TestParseCRCIsNotZeroPadded(t *testing.T) {
	f := replaytest.Sample()
	f.CRC = 0x00a1b2c3
	r, err := Parse(f.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if r.CRC != "a1b2c3" {
		t.Errorf("CRC = %q", r.CRC)
	}
}

func TestParseHeader(t *testing.T) {
	r := parseSample(t)
	want := []string{"TeamSize", "Id", "MapName", "OnlineID", "Goals", "RecordFPS", "bUnfairBots", "Platform"}
	if got := r.Header.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("header names = %v", got)
	}
	if v, _ := r.Header.Int("TeamSize"); v != 3 {
		t.Errorf("TeamSize = %d", v)
	}
	goals, _ := r.Header.Get("Goals")
	if len(goals.Array) != 2 {
		t.Fatalf("Goals = %+v", goals)
	}
	if v, _ := goals.Array[1].Int("frame"); v != 1210 {
		t.Errorf("goal frame = %d", v)
	}
	id, err := r.ID()
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if id.String() != "5a7f8c5e-4e0f-4a1b-9e1c-0d2b3a4f5e6d" {
		t.Errorf("ID = %s", id)
	}
}

func TestParseSections(t *testing.T) {
	r := parseSample(t)
	f := replaytest.Sample()

	if !reflect.DeepEqual(r.Maps, f.Maps) {
		t.Errorf("Maps = %v", r.Maps)
	}
	wantKF := []KeyFrame{{Time: 0, Frame: 0, Position: 0}, {Time: 10.5, Frame: 315, Position: 4}}
	if !reflect.DeepEqual(r.KeyFrames, wantKF) {
		t.Errorf("KeyFrames = %+v", r.KeyFrames)
	}
	if !bytes.Equal(r.NetStream, f.NetStream) {
		t.Errorf("NetStream = %x", r.NetStream)
	}
	if !reflect.DeepEqual(r.DebugLog, []DebugLogEntry{{Frame: 12, Player: "alpha", Data: "connected"}}) {
		t.Errorf("DebugLog = %+v", r.DebugLog)
	}
	if !reflect.DeepEqual(r.GoalFrames, []GoalFrame{{Type: "Team0Goal", Frame: 441}, {Type: "Team1Goal", Frame: 1210}}) {
		t.Errorf("GoalFrames = %+v", r.GoalFrames)
	}
	if !reflect.DeepEqual(r.Packages, f.Packages) || !reflect.DeepEqual(r.Objects, f.Objects) || !reflect.DeepEqual(r.Names, f.Names) {
		t.Errorf("string tables = %v %v %v", r.Packages, r.Objects, r.Names)
	}
	if !reflect.DeepEqual(r.ClassIndexMap, map[uint32]string{0: "Engine.Actor", 1: "TAGame.Ball_TA", 2: "TAGame.Car_TA"}) {
		t.Errorf("ClassIndexMap = %v", r.ClassIndexMap)
	}
}

func TestParseNetCache(t *testing.T) {
	r := parseSample(t)
	root := r.NetCache
	if root == nil || root.ClassName != "Engine.Actor" {
		t.Fatalf("root = %+v", root)
	}
	if len(root.Children) != 1 {
		t.Fatalf("root children = %d", len(root.Children))
	}
	ball := root.Children[0]
	if ball.ClassName != "TAGame.Ball_TA" || !reflect.DeepEqual(ball.PropertyMapping, map[uint32]uint32{2: 5, 1: 6}) {
		t.Errorf("ball = %+v", ball)
	}
	if len(ball.Children) != 1 || ball.Children[0].ClassName != "TAGame.Car_TA" {
		t.Errorf("ball children = %+v", ball.Children)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	b := replaytest.Sample().Encode()
	r1, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	j1, _ := json.Marshal(r1)
	j2, _ := json.Marshal(r2)
	if !bytes.Equal(j1, j2) || !r1.Header.Equal(r2.Header) {
		t.Fatal("re-parsing produced a different result")
	}
	if r1.NetCache == r2.NetCache {
		t.Error("parses share a net cache tree")
	}
}

func TestParseTruncatedAfterHeader(t *testing.T) {
	f := replaytest.Sample()
	b := f.Encode()[:f.MapsOffset()]

	r, err := Parse(b)
	if r != nil {
		t.Error("partial replay returned")
	}
	if !errors.Is(err, ErrBufferUnderrun) {
		t.Fatalf("err = %v, want ErrBufferUnderrun", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err %T is not a DecodeError", err)
	}
	if de.Section != SectionMaps || de.Offset != f.MapsOffset() {
		t.Errorf("stopped in %s at %d, want %s at %d", de.Section, de.Offset, SectionMaps, f.MapsOffset())
	}
}

func TestParseEveryTruncationFails(t *testing.T) {
	b := replaytest.Sample().Encode()
	for n := 0; n < len(b); n++ {
		if _, err := Parse(b[:n]); err == nil {
			t.Fatalf("truncation at %d decoded successfully", n)
		}
	}
}

func TestParseSectionErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*replaytest.File)
		kind    error
		section string
	}{
		{"unsupported header property", func(f *replaytest.File) {
			f.Header = func(e *replaytest.Encoder) {
				e.Prop("Owner", "ObjectProperty", func(p *replaytest.Encoder) { p.U32(1) })
			}
		}, ErrUnsupportedPropertyType, SectionHeader},
		{"empty net cache", func(f *replaytest.File) { f.Caches = nil }, ErrNetCacheTree, SectionNetCache},
		{"unresolvable parent", func(f *replaytest.File) {
			f.Caches = []replaytest.Cache{{CacheID: 40}, {ParentCacheID: 2, CacheID: 41}}
		}, ErrNetCacheTree, SectionNetCache},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := replaytest.Sample()
			tt.mutate(&f)
			_, err := Parse(f.Encode())
			if !errors.Is(err, tt.kind) {
				t.Fatalf("err = %v, want %v", err, tt.kind)
			}
			var de *DecodeError
			if !errors.As(err, &de) || de.Section != tt.section {
				t.Errorf("section = %+v, want %s", de, tt.section)
			}
		})
	}
}

func TestParseNetStreamLengthBeyondBuffer(t *testing.T) {
	f := replaytest.Sample()
	b := f.Encode()
	// Netstream length sits after maps (count + "stadium_p") and two keyframes.
	off := f.MapsOffset() + 4 + 4 + len("stadium_p") + 1 + 4 + 2*12
	b[off], b[off+1], b[off+2], b[off+3] = 0xff, 0xff, 0xff, 0x7f

	_, err := Parse(b)
	if !errors.Is(err, ErrMalformedLength) {
		t.Fatalf("err = %v, want ErrMalformedLength", err)
	}
	var de *DecodeError
	if errors.As(err, &de) && (de.Section != SectionNetStream || de.Offset != off) {
		t.Errorf("stopped in %s at %d, want %s at %d", de.Section, de.Offset, SectionNetStream, off)
	}
}

func TestReplayJSON(t *testing.T) {
	r := parseSample(t)
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["crc"] != "59f93396" || doc["version"] != "868.17" {
		t.Errorf("crc/version = %v %v", doc["crc"], doc["version"])
	}
	header := doc["header"].(map[string]any)
	if header["OnlineID"] != "76561198012345678" {
		t.Errorf("OnlineID = %#v", header["OnlineID"])
	}
	if _, ok := doc["netCache"].(map[string]any)["children"]; !ok {
		t.Error("netCache has no children field")
	}
}
