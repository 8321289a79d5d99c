// Package sniff identifies audio container formats from magic-byte prefixes.
// Browsers upload recordings without reliable file names, so the worker picks
// the temp file extension from the payload itself.
package sniff

import "bytes"

// Format is an audio container tag.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatWebM Format = "webm"
	FormatOGG  Format = "ogg"
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
)

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

type signature struct {
	prefix []byte
	format Format
}

// Checked in order; first match wins.
var signatures = []signature{
	{[]byte("RIFF"), FormatWAV},
	{[]byte{0x1a, 0x45, 0xdf, 0xa3}, FormatWebM}, // EBML header (WebM/Matroska)
	{[]byte("OggS"), FormatOGG},
	{[]byte("ID3"), FormatMP3},
	{[]byte{0xff, 0xfb}, FormatMP3}, // bare MPEG frame sync
	{[]byte("fLaC"), FormatFLAC},
}

// Detect inspects the first bytes of data against known container signatures.
// When nothing matches it falls back to WebM (the common case for browser
// recordings) and reports matched=false so callers can log the guess.
// Pure and deterministic; truncated or empty input simply falls through to
// the default.
func Detect(data []byte) (format Format, matched bool) {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.prefix) {
			return sig.format, true
		}
	}
	return FormatWebM, false
}
