package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultDPI is the rasterization resolution. Invoices carry the billing
// barcode at roughly 5cm print width; at 300 DPI that spans ~600px, well above
// the ~150px a linear symbology needs to stay legible to the decoder.
const DefaultDPI = 300

var (
	// ErrInvalidDocument indicates the payload is not a well-formed PDF.
	// Terminal for the candidate: the bytes will not improve on retry.
	ErrInvalidDocument = errors.New("not a valid PDF document")

	// ErrEncrypted indicates the document is encrypted without a known password.
	ErrEncrypted = errors.New("PDF document is encrypted")
)

// Page is one rasterized page of a document. Pages are ephemeral: they are
// owned by the scan pass that consumes them and must not be cached across
// documents.
type Page struct {
	// Index is the zero-based page index within the source document.
	Index int

	// Image is the rasterized page.
	Image image.Image
}

// Renderer converts PDF documents into raster images for barcode scanning.
type Renderer struct {
	// DPI is the rasterization resolution. Zero means DefaultDPI.
	DPI float64
}

// NewRenderer returns a renderer at DefaultDPI.
func NewRenderer() *Renderer {
	return &Renderer{DPI: DefaultDPI}
}

func (r *Renderer) dpi() float64 {
	if r.DPI <= 0 {
		return DefaultDPI
	}
	return r.DPI
}

// Render validates the document and rasterizes every page.
// Returns ErrInvalidDocument or ErrEncrypted (wrapped) for documents that can
// never render, which the caller treats as terminal for the candidate.
func (r *Renderer) Render(doc []byte) ([]Page, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}

	d, err := fitz.NewFromMemory(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	defer d.Close()

	pages := make([]Page, 0, d.NumPage())
	for n := 0; n < d.NumPage(); n++ {
		img, err := d.ImageDPI(n, r.dpi())
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", n, err)
		}
		pages = append(pages, Page{Index: n, Image: img})
	}

	return pages, nil
}

// validate runs a structural PDF check before handing the bytes to the
// rasterizer, mapping encryption and corruption onto the terminal sentinels.
func validate(doc []byte) error {
	conf := model.NewDefaultConfiguration()
	if err := api.Validate(bytes.NewReader(doc), conf); err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "encrypt") || strings.Contains(msg, "password") {
			return fmt.Errorf("%w: %v", ErrEncrypted, err)
		}
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}
