package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// rasterDPI is the resolution PDF attachment pages are rendered at
const rasterDPI = 150

var (
	errUnsupported = errors.New("unsupported attachment type")
	errEmptyImage  = errors.New("image has no pixels")
)

// Image is a decoded attachment ready to be placed on a page
type Image struct {
	Name   string // unique key within one export
	Format string // PNG or JPG
	Width  int    // pixels
	Height int    // pixels
	Data   []byte
}

// attachmentLoader turns an attachment file into one or more page images
type attachmentLoader struct {
	rasterize func(path string) ([]Image, error)
}

func newAttachmentLoader() *attachmentLoader {
	return &attachmentLoader{rasterize: rasterizePDF}
}

func (l *attachmentLoader) load(path string) ([]Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".gif":
		img, err := loadPNG(path)
		if err != nil {
			return nil, err
		}
		return []Image{img}, nil
	case ".jpg", ".jpeg":
		img, err := loadJPEG(path)
		if err != nil {
			return nil, err
		}
		return []Image{img}, nil
	case ".pdf":
		return l.rasterize(path)
	}
	return nil, errUnsupported
}

// loadPNG decodes a PNG or GIF and re-encodes it as a plain PNG, which the
// PDF writer accepts whatever the source interlacing or palette.
func loadPNG(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	decoded, _, err := image.Decode(f)
	if err != nil {
		return Image{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return encodePNG(path, decoded)
}

func loadJPEG(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return Image{
		Name:   path,
		Format: "JPG",
		Width:  cfg.Width,
		Height: cfg.Height,
		Data:   data,
	}, nil
}

func encodePNG(name string, img image.Image) (Image, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Image{}, fmt.Errorf("encode %s: %w", name, err)
	}
	bounds := img.Bounds()
	return Image{
		Name:   name,
		Format: "PNG",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Data:   buf.Bytes(),
	}, nil
}

// rasterizePDF renders every page of a PDF attachment to an in-memory PNG.
// Nothing is written to disk.
func rasterizePDF(path string) ([]Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer doc.Close()

	images := make([]Image, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		page, err := doc.ImageDPI(n, rasterDPI)
		if err != nil {
			return nil, fmt.Errorf("render %s page %d: %w", path, n+1, err)
		}
		img, err := encodePNG(fmt.Sprintf("%s#page=%d", path, n+1), page)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}
