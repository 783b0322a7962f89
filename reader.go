package taul

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Encoding selects how a StringGlyphReader's source code units map onto
// source-text positions (§6, "Glyph reader" config).
type Encoding int

const (
	// EncodingUTF8 treats the source as UTF-8 bytes; pos/len are byte
	// offsets.
	EncodingUTF8 Encoding = iota
	// EncodingUTF16 treats the source as little-endian UTF-16 code units
	// (2 bytes each, surrogate pairs counted as 2 units); pos/len are
	// counted in units.
	EncodingUTF16
	// EncodingUTF32 treats the source as little-endian UTF-32 code units
	// (4 bytes each, exactly one per code point); pos/len are counted in
	// units.
	EncodingUTF32
)

// StringGlyphReader is a GlyphStream over an in-memory byte buffer, decoded
// according to a configured Encoding. It is the concrete glyph producer a
// Lexer is typically bound to.
type StringGlyphReader struct {
	enc  Encoding
	src  []byte
	pos  int // current position, in the units appropriate to enc
	done bool
	obs  GlyphObserver
}

// NewStringGlyphReader builds a reader over raw source bytes with the given
// encoding. For EncodingUTF16, the bytes are first run through (not
// re-encoded by) golang.org/x/text's UTF-16 decoder and then checked for
// unpaired surrogates, so malformed input is caught before incremental,
// position-tracked decoding begins.
func NewStringGlyphReader(src []byte, enc Encoding) (*StringGlyphReader, error) {
	if enc == EncodingUTF16 {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		if _, err := dec.Bytes(src); err != nil {
			return nil, fmt.Errorf("invalid utf-16 source: %w", err)
		}
		for i := 0; i+1 < len(src); i += 2 {
			u1 := rune(binary.LittleEndian.Uint16(src[i:]))
			if !utf16.IsSurrogate(u1) {
				continue
			}
			if i+3 >= len(src) || utf16.DecodeRune(u1, rune(binary.LittleEndian.Uint16(src[i+2:]))) == utf8.RuneError {
				return nil, fmt.Errorf("invalid utf-16 source: unpaired surrogate at unit %d", i/2)
			}
			i += 2
		}
	}
	return &StringGlyphReader{enc: enc, src: src}, nil
}

// NewStringGlyphReaderFromString is a convenience constructor for UTF-8
// text, the common case.
func NewStringGlyphReaderFromString(s string) *StringGlyphReader {
	return &StringGlyphReader{enc: EncodingUTF8, src: []byte(s)}
}

// ChangeInput rebinds the reader to a new source buffer. A subsequent Reset
// is required before reading.
func (r *StringGlyphReader) ChangeInput(src []byte, enc Encoding) {
	r.src = src
	r.enc = enc
	r.pos = 0
	r.done = false
}

// Reset restarts the reader from the beginning of its current source.
func (r *StringGlyphReader) Reset() {
	r.pos = 0
	r.done = false
}

func (r *StringGlyphReader) BindObserver(obs GlyphObserver) { r.obs = obs }

func (r *StringGlyphReader) Done() bool {
	return r.done || r.peekGlyph().IsEnd()
}

func (r *StringGlyphReader) Peek() Glyph {
	return r.peekGlyph()
}

func (r *StringGlyphReader) Next() Glyph {
	g := r.peekGlyph()
	if !g.IsEnd() {
		r.pos += g.Len
	} else {
		r.done = true
	}
	if r.obs != nil {
		r.obs.Observe(g)
	}
	return g
}

func (r *StringGlyphReader) peekGlyph() Glyph {
	switch r.enc {
	case EncodingUTF32:
		return r.peekUTF32()
	case EncodingUTF16:
		return r.peekUTF16()
	default:
		return r.peekUTF8()
	}
}

func (r *StringGlyphReader) peekUTF8() Glyph {
	if r.pos >= len(r.src) {
		return Glyph{ID: GlyphEnd, Pos: r.pos}
	}
	ru, size := utf8.DecodeRune(r.src[r.pos:])
	return Glyph{ID: int32(ru), Pos: r.pos, Len: size}
}

func (r *StringGlyphReader) peekUTF32() Glyph {
	if r.pos*4+4 > len(r.src) {
		return Glyph{ID: GlyphEnd, Pos: r.pos}
	}
	v := binary.LittleEndian.Uint32(r.src[r.pos*4:])
	return Glyph{ID: int32(v), Pos: r.pos, Len: 1}
}

func (r *StringGlyphReader) peekUTF16() Glyph {
	byteOff := r.pos * 2
	if byteOff+2 > len(r.src) {
		return Glyph{ID: GlyphEnd, Pos: r.pos}
	}
	u1 := binary.LittleEndian.Uint16(r.src[byteOff:])
	if utf16.IsSurrogate(rune(u1)) && byteOff+4 <= len(r.src) {
		u2 := binary.LittleEndian.Uint16(r.src[byteOff+2:])
		ru := utf16.DecodeRune(rune(u1), rune(u2))
		if ru != utf8.RuneError {
			return Glyph{ID: int32(ru), Pos: r.pos, Len: 2}
		}
	}
	return Glyph{ID: int32(u1), Pos: r.pos, Len: 1}
}
