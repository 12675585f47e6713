package rlreplay

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferUnderrun is returned when a read runs past the end of the input.
	ErrBufferUnderrun = errors.New("rlreplay: buffer underrun")
	// ErrMalformedLength is returned when a declared count or length cannot fit
	// in the bytes that remain.
	ErrMalformedLength = errors.New("rlreplay: malformed length")
	// ErrUnsupportedPropertyType is returned for a property type tag outside the
	// recognised set.
	ErrUnsupportedPropertyType = errors.New("rlreplay: unsupported property type")
	// ErrNestingTooDeep is returned when array properties nest beyond
	// Options.MaxArrayDepth.
	ErrNestingTooDeep = errors.New("rlreplay: property nesting too deep")
	// ErrNetCacheTree is returned when the class net cache hierarchy cannot be
	// rebuilt.
	ErrNetCacheTree = errors.New("rlreplay: net cache tree")
)

// DecodeError reports where decoding stopped. Kind is one of the Err* sentinels
// above and is matched by errors.Is. Tag is set for ErrUnsupportedPropertyType.
type DecodeError struct {
	Section string
	Offset  int
	Kind    error
	Tag     string
	Detail  string
}

func (e *DecodeError) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Section != "" {
		return fmt.Sprintf("%s (section %s, offset %d)", msg, e.Section, e.Offset)
	}
	return fmt.Sprintf("%s (offset %d)", msg, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Kind }

func newDecodeError(kind error, offset int, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

// inSection stamps the section name on a *DecodeError that does not carry one yet.
func inSection(section string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) && de.Section == "" {
		de.Section = section
	}
	return err
}
