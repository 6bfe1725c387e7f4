package barcode

import (
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Result is one decoded barcode payload.
type Result struct {
	// Payload is the decoded text.
	Payload string

	// Symbology is the encoding standard reported by the decoder (e.g. EAN_13,
	// CODE_128, QR_CODE).
	Symbology string

	// PageIndex is the zero-based index of the source page.
	PageIndex int
}

// Scanner decodes barcodes from raster images. It is symbology-agnostic: a
// fixed set of 1D and 2D decoders runs over each image and whatever they
// report is returned. Invoice barcodes vary by issuer (EAN or Code 128
// reference numbers, QR payment codes), so no single decoder would do.
type Scanner struct {
	hints   map[gozxing.DecodeHintType]interface{}
	readers []gozxing.Reader
}

// NewScanner creates a scanner covering the common linear and matrix
// symbologies.
func NewScanner() *Scanner {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	return &Scanner{
		hints: hints,
		readers: []gozxing.Reader{
			oned.NewMultiFormatUPCEANReader(hints),
			oned.NewCode128Reader(),
			oned.NewITFReader(),
			qrcode.NewQRCodeReader(),
			datamatrix.NewDataMatrixReader(),
			aztec.NewAztecReader(),
		},
	}
}

// Scan decodes all barcodes the readers find on the image. An empty result is
// not an error; it simply means no decoder recognized anything.
func (s *Scanner) Scan(img image.Image, pageIndex int) ([]Result, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to binarize image: %w", err)
	}

	var results []Result
	seen := make(map[string]bool)
	for _, reader := range s.readers {
		res, err := reader.Decode(bmp, s.hints)
		if err != nil {
			// NotFoundException and friends: this symbology is absent.
			continue
		}
		payload := res.GetText()
		if payload == "" || seen[payload] {
			continue
		}
		seen[payload] = true
		results = append(results, Result{
			Payload:   payload,
			Symbology: res.GetBarcodeFormat().String(),
			PageIndex: pageIndex,
		})
	}

	return results, nil
}
