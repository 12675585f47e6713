// Package rlreplay decodes ".replay" match recordings into a structured Replay.
//
// A replay file is laid out as (integers little-endian unless noted):
//   - header: [size:u32][crc:u32 BE][major:u32][minor:u32][label:string][properties]
//   - two reserved u32 fields
//   - maps, keyframes, [len:u32][netstream bytes], debug log, goal frames
//   - packages, objects, names string tables
//   - class index map and class net cache list
//
// Strings are [len:u32][len bytes], the last byte being a null terminator that
// is dropped on decode. Properties are [name][type][size:u32][reserved:u32][value]
// records terminated by the name "None".
//
// Decoding is a pure function of the input: Parse never logs, never touches the
// filesystem and shares no state between calls, so independent files may be
// decoded concurrently. Every failure is a *DecodeError naming the section and
// byte offset where decoding stopped.
package rlreplay
