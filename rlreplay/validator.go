package rlreplay

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Check reports structural oddities in a decoded replay that do not prevent
// decoding. It does not judge game-level values such as map names.
func Check(r *Replay) []string {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	if len(r.KeyFrames) == 0 {
		warn("no keyframes")
	}
	if len(r.NetStream) == 0 {
		warn("network stream is empty")
	}
	for i, kf := range r.KeyFrames {
		if uint64(kf.Position) > uint64(len(r.NetStream)) {
			warn("keyframe %d: position %d beyond network stream (%d bytes)", i, kf.Position, len(r.NetStream))
		}
		if i > 0 && kf.Frame < r.KeyFrames[i-1].Frame {
			warn("keyframe %d: frame %d precedes previous frame %d", i, kf.Frame, r.KeyFrames[i-1].Frame)
		}
	}
	if _, err := r.ID(); err != nil {
		warn("%v", err)
	}
	if r.Header.Len() == 0 {
		warn("header has no properties")
	}
	return warnings
}

// ValidateFile decodes the replay at path and logs every Check warning. It
// returns an error only when the file cannot be read or decoded.
func ValidateFile(path string, opts Options) (*Replay, error) {
	r, _, err := Validate(path, opts, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return r, nil
}

// ValidateFileQuiet is like ValidateFile but suppresses all log output.
// Useful for CLI tools that want to control output formatting.
func ValidateFileQuiet(path string, opts Options) (*Replay, error) {
	r, _, err := Validate(path, opts, zerolog.Nop())
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return r, nil
}

// Validate decodes the replay at path and returns it with its Check warnings.
// Warnings are logged at warn level and a per-file summary at debug level;
// decode errors are returned, not logged.
func Validate(path string, opts Options, logger zerolog.Logger) (*Replay, []string, error) {
	r, err := ReadFile(path, opts)
	if err != nil {
		return nil, nil, err
	}
	l := logger.With().Str("path", path).Logger()
	warnings := Check(r)
	for _, w := range warnings {
		l.Warn().Msg(w)
	}
	l.Debug().
		Str("version", r.Version).
		Str("crc", r.CRC).
		Int("keyframes", len(r.KeyFrames)).
		Int("goals", len(r.GoalFrames)).
		Int("netstream_bytes", len(r.NetStream)).
		Int("warnings", len(warnings)).
		Msg("validated replay")
	return r, warnings, nil
}
