package rlreplay

// DefaultMaxArrayDepth bounds how deeply ArrayProperty values may nest.
const DefaultMaxArrayDepth = 32

// Options tunes the decoder's safety limits. The zero value selects defaults.
type Options struct {
	// MaxArrayDepth is the deepest allowed ArrayProperty nesting.
	MaxArrayDepth int
	// MaxParentRetries bounds how many times the net cache builder decrements a
	// parent cache id looking for a match. Zero uses the number of distinct
	// cache ids in the list.
	MaxParentRetries int
}

func (o Options) maxArrayDepth() int {
	if o.MaxArrayDepth <= 0 {
		return DefaultMaxArrayDepth
	}
	return o.MaxArrayDepth
}
