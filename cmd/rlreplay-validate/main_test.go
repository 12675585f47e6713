package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/reallyoldfogie/rl-replay-go/internal/replaytest"
)

func TestRunValidate(t *testing.T) {
	dir := t.TempDir()
	replaytest.Sample().WriteFile(t, dir, "a.replay")
	replaytest.Sample().WriteFile(t, dir, "b.replay")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	if err := runValidate(rootCmd, []string{dir}); err != nil {
		t.Fatalf("runValidate: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "✅ a.replay: valid (868.17, crc 59f93396)") || !strings.Contains(got, "All 2 replay files are valid!") {
		t.Errorf("output = %s", got)
	}
}

func TestRunValidateFailure(t *testing.T) {
	dir := t.TempDir()
	bad := replaytest.Sample()
	bad.Caches = nil
	path := bad.WriteFile(t, dir, "bad.replay")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	if err := runValidate(rootCmd, []string{path}); !errors.Is(err, errFailures) {
		t.Fatalf("err = %v, want errFailures", err)
	}
	if strings.Contains(out.String(), "valid") {
		t.Errorf("failing file reported valid: %s", out.String())
	}
}
