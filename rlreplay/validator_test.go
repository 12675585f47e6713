package rlreplay

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reallyoldfogie/rl-replay-go/internal/replaytest"
)

func TestCheckCleanReplay(t *testing.T) {
	if w := Check(parseSample(t)); len(w) != 0 {
		t.Errorf("warnings = %v", w)
	}
}

func TestCheckWarnings(t *testing.T) {
	f := replaytest.Sample()
	f.Header = func(e *replaytest.Encoder) { e.StrProp("Id", "not-a-guid") }
	f.KeyFrames = []replaytest.KeyFrame{{Frame: 30, Position: 2}, {Frame: 10, Position: 99}}
	r, err := Parse(f.Encode())
	if err != nil {
		t.Fatal(err)
	}

	got := strings.Join(Check(r), "\n")
	for _, want := range []string{
		"keyframe 1: position 99 beyond network stream",
		"keyframe 1: frame 10 precedes previous frame 30",
		`header Id "not-a-guid"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing warning %q in:\n%s", want, got)
		}
	}
}

func TestCheckEmptySections(t *testing.T) {
	f := replaytest.Sample()
	f.Header = nil
	f.KeyFrames = nil
	f.NetStream = nil
	r, err := Parse(f.Encode())
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(Check(r), "\n")
	for _, want := range []string{"no keyframes", "network stream is empty", "no Id property", "header has no properties"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing warning %q in:\n%s", want, got)
		}
	}
}

func TestValidateLogsWarnings(t *testing.T) {
	f := replaytest.Sample()
	f.KeyFrames = nil
	path := f.WriteFile(t, t.TempDir(), "nokf.replay")

	var buf bytes.Buffer
	r, warnings, err := Validate(path, Options{}, zerolog.New(&buf))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if r.Version != "868.17" {
		t.Errorf("Version = %q", r.Version)
	}
	if len(warnings) != 1 || warnings[0] != "no keyframes" {
		t.Errorf("warnings = %v", warnings)
	}
	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, "no keyframes") {
		t.Errorf("log output = %s", out)
	}
	if !strings.Contains(out, `"path":"`+path+`"`) {
		t.Errorf("log lacks path: %s", out)
	}
}

func TestValidateFileQuietReportsDecodeErrors(t *testing.T) {
	f := replaytest.Sample()
	f.Caches = nil
	path := f.WriteFile(t, t.TempDir(), "bad.replay")
	if _, err := ValidateFileQuiet(path, Options{}); err == nil || !strings.Contains(err.Error(), "net cache") {
		t.Fatalf("err = %v", err)
	}

	var buf bytes.Buffer
	if _, _, err := Validate(path, Options{}, zerolog.New(&buf)); !errors.Is(err, ErrNetCacheTree) {
		t.Fatalf("Validate err = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("decode failure was logged: %s", buf.String())
	}
}
