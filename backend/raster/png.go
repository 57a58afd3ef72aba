package raster

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
)

var (
	// ErrNotBegun is returned when drawing before Begin.
	ErrNotBegun = errors.New("raster: backend not begun")

	// ErrNoMetadata is returned by Metadata when the PNG carries no source.
	ErrNoMetadata = errors.New("raster: no diagram source in PNG")
)

// MetadataKeyword is the iTXt keyword under which the diagram source
// is stored.
const MetadataKeyword = "ug-source"

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// Encode writes img as PNG. A non-empty source is stored in an
// uncompressed iTXt chunk right after the header.
func Encode(w io.Writer, img image.Image, source string) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("raster: encode png: %w", err)
	}
	data := buf.Bytes()
	if source == "" {
		_, err := w.Write(data)
		return err
	}

	// Signature, then IHDR: length, type, 13 bytes, crc.
	ihdrEnd := len(pngSignature) + 4 + 4 + 13 + 4
	if len(data) < ihdrEnd {
		return fmt.Errorf("raster: short png (%d bytes)", len(data))
	}
	if _, err := w.Write(data[:ihdrEnd]); err != nil {
		return err
	}
	if _, err := w.Write(chunk("iTXt", itxt(MetadataKeyword, source))); err != nil {
		return err
	}
	_, err := w.Write(data[ihdrEnd:])
	return err
}

// itxt builds the payload: keyword, no compression, empty language and
// translated keyword, UTF-8 text.
func itxt(keyword, text string) []byte {
	var b bytes.Buffer
	b.WriteString(keyword)
	b.Write([]byte{0, 0, 0})
	b.WriteByte(0) // language
	b.WriteByte(0) // translated keyword
	b.WriteString(text)
	return b.Bytes()
}

func chunk(typ string, payload []byte) []byte {
	out := make([]byte, 8, 12+len(payload))
	binary.BigEndian.PutUint32(out, uint32(len(payload)))
	copy(out[4:], typ)
	out = append(out, payload...)
	crc := crc32.NewIEEE()
	crc.Write(out[4:])
	return binary.BigEndian.AppendUint32(out, crc.Sum32())
}

// Metadata returns the diagram source stored by Encode.
func Metadata(data []byte) (string, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return "", fmt.Errorf("raster: not a png")
	}
	rest := data[len(pngSignature):]
	for len(rest) >= 12 {
		n := int(binary.BigEndian.Uint32(rest))
		if n < 0 || 12+n > len(rest) {
			return "", fmt.Errorf("raster: truncated chunk")
		}
		typ := string(rest[4:8])
		payload := rest[8 : 8+n]
		if typ == "iTXt" {
			if text, ok := parseITXt(payload); ok {
				return text, nil
			}
		}
		if typ == "IEND" {
			break
		}
		rest = rest[12+n:]
	}
	return "", ErrNoMetadata
}

func parseITXt(p []byte) (string, bool) {
	kw, p, ok := bytes.Cut(p, []byte{0})
	if !ok || string(kw) != MetadataKeyword || len(p) < 2 || p[0] != 0 {
		return "", false
	}
	p = p[2:]
	if _, p, ok = bytes.Cut(p, []byte{0}); !ok {
		return "", false
	}
	if _, p, ok = bytes.Cut(p, []byte{0}); !ok {
		return "", false
	}
	return string(p), true
}
