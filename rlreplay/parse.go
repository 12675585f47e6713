package rlreplay

import "fmt"

// Section names reported in DecodeError.
const (
	SectionHeader        = "header"
	SectionReserved      = "reserved"
	SectionMaps          = "maps"
	SectionKeyFrames     = "keyframes"
	SectionNetStream     = "netstream"
	SectionDebugLog      = "debuglog"
	SectionGoalFrames    = "goalframes"
	SectionPackages      = "packages"
	SectionObjects       = "objects"
	SectionNames         = "names"
	SectionClassIndexMap = "classindexmap"
	SectionNetCache      = "netcache"
)

// Parse decodes a complete replay file using default Options.
func Parse(b []byte) (*Replay, error) {
	return ParseWithOptions(b, Options{})
}

// ParseWithOptions decodes a complete replay file. Sections are read in file
// order; the first failure aborts the parse and no partial Replay is returned.
func ParseWithOptions(b []byte, opts Options) (*Replay, error) {
	c := NewCursor(b)
	r := &Replay{}

	err := section(SectionHeader, func() error {
		var err error
		if r.HeaderSize, err = c.ReadU32LE(); err != nil {
			return err
		}
		crc, err := c.ReadU32BE()
		if err != nil {
			return err
		}
		r.CRC = fmt.Sprintf("%x", crc)
		if r.MajorVersion, err = c.ReadU32LE(); err != nil {
			return err
		}
		if r.MinorVersion, err = c.ReadU32LE(); err != nil {
			return err
		}
		r.Version = fmt.Sprintf("%d.%d", r.MajorVersion, r.MinorVersion)
		r.Label, r.Header, err = decodeHeader(c, opts)
		return err
	})
	if err != nil {
		return nil, err
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{SectionReserved, func() error { return c.Skip(8) }},
		{SectionMaps, func() (err error) { r.Maps, err = decodeStringArray(c); return }},
		{SectionKeyFrames, func() (err error) { r.KeyFrames, err = decodeKeyFrames(c); return }},
		{SectionNetStream, func() (err error) { r.NetStream, err = decodeNetStream(c); return }},
		{SectionDebugLog, func() (err error) { r.DebugLog, err = decodeDebugLog(c); return }},
		{SectionGoalFrames, func() (err error) { r.GoalFrames, err = decodeGoalFrames(c); return }},
		{SectionPackages, func() (err error) { r.Packages, err = decodeStringArray(c); return }},
		{SectionObjects, func() (err error) { r.Objects, err = decodeStringArray(c); return }},
		{SectionNames, func() (err error) { r.Names, err = decodeStringArray(c); return }},
		{SectionClassIndexMap, func() (err error) { r.ClassIndexMap, err = decodeClassIndexMap(c); return }},
		{SectionNetCache, func() error {
			start := c.Offset()
			entries, err := decodeNetCacheEntries(c)
			if err != nil {
				return err
			}
			r.NetCache, err = buildNetCacheTree(entries, r.ClassIndexMap, opts.MaxParentRetries, start)
			return err
		}},
	}
	for _, s := range steps {
		if err := section(s.name, s.fn); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func section(name string, fn func() error) error {
	if err := fn(); err != nil {
		return inSection(name, err)
	}
	return nil
}
