// Package qr compacts certificate documents into QR codes. A document is
// stored as the single deflated entry of a ZIP archive, the archive bytes are
// carried as a string of one character per byte, and that string is encoded
// as a QR symbol.
package qr

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"
)

// EntryName is the archive entry holding the certificate document.
const EntryName = "certificate.json"

const dataURLPrefix = "data:image/png;base64,"

var (
	ErrMissingEntry = errors.New("archive has no " + EntryName + " entry")
	ErrNotBinary    = errors.New("text contains characters outside the byte range")
)

// Encoder renders QR symbols. The zero value is not usable; use New.
type Encoder struct {
	scale   int
	margin  int
	ecLevel decoder.ErrorCorrectionLevel
}

type Option func(*Encoder)

// WithScale sets the pixel size of one module.
func WithScale(scale int) Option {
	return func(e *Encoder) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

// WithMargin sets the quiet zone width in modules.
func WithMargin(margin int) Option {
	return func(e *Encoder) {
		if margin >= 0 {
			e.margin = margin
		}
	}
}

// New returns an encoder with scale 2, a four module quiet zone and error
// correction level M.
func New(opts ...Option) *Encoder {
	e := &Encoder{scale: 2, margin: 4, ecLevel: decoder.ErrorCorrectionLevel_M}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Archive wraps doc as the only entry of a DEFLATE-compressed ZIP archive.
func Archive(doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: EntryName, Method: zip.Deflate})
	if err != nil {
		return nil, fmt.Errorf("create archive entry: %w", err)
	}
	if _, err := w.Write(doc); err != nil {
		return nil, fmt.Errorf("write archive entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Unarchive returns the certificate document stored in an archive built by Archive.
func Unarchive(archive []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != EntryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", EntryName, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, ErrMissingEntry
}

// BinaryString maps every byte to the character with the same code point.
func BinaryString(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// BinaryBytes is the inverse of BinaryString.
func BinaryBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, ErrNotBinary
		}
		out = append(out, byte(r))
	}
	return out, nil
}

// Payload is the QR text carried for a certificate document.
func Payload(doc []byte) (string, error) {
	archive, err := Archive(doc)
	if err != nil {
		return "", err
	}
	return BinaryString(archive), nil
}

// PNG archives doc and renders it as a QR code image.
func (e *Encoder) PNG(doc []byte) ([]byte, error) {
	text, err := Payload(doc)
	if err != nil {
		return nil, err
	}
	return e.TextPNG(text)
}

// DataURL archives doc and renders it as a PNG data URL.
func (e *Encoder) DataURL(doc []byte) (string, error) {
	b, err := e.PNG(doc)
	if err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(b), nil
}

// TextPNG renders already-compact text, such as a signed credential URI.
func (e *Encoder) TextPNG(text string) ([]byte, error) {
	img, err := e.render(text)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// TextDataURL renders text as a PNG data URL.
func (e *Encoder) TextDataURL(text string) (string, error) {
	b, err := e.TextPNG(text)
	if err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(b), nil
}

func (e *Encoder) render(text string) (*image.Gray, error) {
	hints := map[gozxing.EncodeHintType]interface{}{
		gozxing.EncodeHintType_ERROR_CORRECTION: e.ecLevel,
		gozxing.EncodeHintType_CHARACTER_SET:    "UTF-8",
		gozxing.EncodeHintType_MARGIN:           e.margin,
	}
	matrix, err := qrcode.NewQRCodeWriter().Encode(text, gozxing.BarcodeFormat_QR_CODE, 0, 0, hints)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	w, h := matrix.GetWidth(), matrix.GetHeight()
	img := image.NewGray(image.Rect(0, 0, w*e.scale, h*e.scale))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.Gray{Y: 0xff}
			if matrix.Get(x, y) {
				c = color.Gray{Y: 0x00}
			}
			for dy := 0; dy < e.scale; dy++ {
				for dx := 0; dx < e.scale; dx++ {
					img.SetGray(x*e.scale+dx, y*e.scale+dy, c)
				}
			}
		}
	}
	return img, nil
}

// DecodePNG reads the text carried by a QR code image.
func DecodePNG(b []byte) (string, error) {
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("decode png: %w", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize: %w", err)
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_PURE_BARCODE:  true,
		gozxing.DecodeHintType_CHARACTER_SET: "UTF-8",
	})
	if err != nil {
		return "", fmt.Errorf("decode qr: %w", err)
	}
	return result.GetText(), nil
}

// DecodeDocument recovers the certificate document from a QR image built by PNG.
func DecodeDocument(b []byte) ([]byte, error) {
	text, err := DecodePNG(b)
	if err != nil {
		return nil, err
	}
	archive, err := BinaryBytes(text)
	if err != nil {
		return nil, err
	}
	return Unarchive(archive)
}
