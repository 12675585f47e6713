package rlreplay

// Minimum encoded widths, used to reject counts that cannot fit.
const (
	stringWidth        = 4
	keyFrameWidth      = 12
	debugLogWidth      = 4 + 2*stringWidth
	goalFrameWidth     = stringWidth + 4
	classIndexWidth    = stringWidth + 4
	netCacheEntryWidth = 16
	mappingPairWidth   = 8
)

// decodeHeader reads the header label and property block.
func decodeHeader(c *Cursor, opts Options) (string, PropertyMap, error) {
	label, err := c.ReadString()
	if err != nil {
		return "", PropertyMap{}, err
	}
	props, err := decodeProperties(c, 0, opts)
	if err != nil {
		return "", PropertyMap{}, err
	}
	return label, props, nil
}

func decodeStringArray(c *Cursor) ([]string, error) {
	n, err := c.readCount(stringWidth)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeKeyFrames(c *Cursor) ([]KeyFrame, error) {
	n, err := c.readCount(keyFrameWidth)
	if err != nil {
		return nil, err
	}
	out := make([]KeyFrame, n)
	for i := range out {
		kf := &out[i]
		if kf.Time, err = c.ReadF32LE(); err != nil {
			return nil, err
		}
		if kf.Frame, err = c.ReadU32LE(); err != nil {
			return nil, err
		}
		if kf.Position, err = c.ReadU32LE(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decodeNetStream copies the length-prefixed network stream without looking
// inside it.
func decodeNetStream(c *Cursor) ([]byte, error) {
	start := c.Offset()
	n, err := c.ReadU32LE()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(c.Remaining()) {
		return nil, newDecodeError(ErrMalformedLength, start, "netstream length %d exceeds remaining %d", n, c.Remaining())
	}
	return c.ReadBytes(int(n))
}

func decodeDebugLog(c *Cursor) ([]DebugLogEntry, error) {
	n, err := c.readCount(debugLogWidth)
	if err != nil {
		return nil, err
	}
	out := make([]DebugLogEntry, n)
	for i := range out {
		e := &out[i]
		if e.Frame, err = c.ReadU32LE(); err != nil {
			return nil, err
		}
		if e.Player, err = c.ReadString(); err != nil {
			return nil, err
		}
		if e.Data, err = c.ReadString(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeGoalFrames(c *Cursor) ([]GoalFrame, error) {
	n, err := c.readCount(goalFrameWidth)
	if err != nil {
		return nil, err
	}
	out := make([]GoalFrame, n)
	for i := range out {
		g := &out[i]
		if g.Type, err = c.ReadString(); err != nil {
			return nil, err
		}
		if g.Frame, err = c.ReadU32LE(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decodeClassIndexMap reads (name, id) pairs and returns them keyed by id. A
// repeated id keeps the later name.
func decodeClassIndexMap(c *Cursor) (map[uint32]string, error) {
	n, err := c.readCount(classIndexWidth)
	if err != nil {
		return nil, err
	}
	out := make(map[uint32]string, n)
	for i := 0; i < n; i++ {
		name, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		id, err := c.ReadU32LE()
		if err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, nil
}
