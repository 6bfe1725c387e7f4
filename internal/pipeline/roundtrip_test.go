package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	"image/png"
	"io"
	"testing"

	bb "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpavlovic/racuni/internal/barcode"
	"github.com/mpavlovic/racuni/internal/gmail"
	"github.com/mpavlovic/racuni/internal/pdf"
	"github.com/mpavlovic/racuni/internal/state"
)

// makeInvoicePDF builds a one-page PDF with an EAN-13 barcode, standing in
// for a real invoice attachment.
func makeInvoicePDF(t *testing.T) []byte {
	t.Helper()

	code, err := ean.Encode("1234567890128")
	require.NoError(t, err)
	scaled, err := bb.Scale(code, 400, 160)
	require.NoError(t, err)

	canvas := image.NewRGBA(image.Rect(0, 0, 520, 280))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(60, 60, 460, 220), scaled, image.Point{}, draw.Src)

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, canvas))

	var pdfBuf bytes.Buffer
	require.NoError(t, api.ImportImages(nil, &pdfBuf, []io.Reader{&pngBuf}, nil, nil))
	return pdfBuf.Bytes()
}

// TestRunExtractsBarcodeFromRealDocument runs the pipeline with the real
// renderer and scanner against a generated invoice PDF.
func TestRunExtractsBarcodeFromRealDocument(t *testing.T) {
	if testing.Short() {
		t.Skip("rendering at full DPI is slow")
	}

	mail := &fakeMail{
		candidates: []gmail.InvoiceCandidate{candidate("msg-1")},
		docs:       map[string][]byte{"msg-1": makeInvoicePDF(t)},
	}
	arch := &fakeArchiver{}
	store := state.NewMemoryStore()
	p := newTestPipeline(mail, arch, store, pdf.NewRenderer(), barcode.NewScanner())

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)

	out := report.Outcomes[0]
	assert.Equal(t, StatusProcessed, out.Status)
	assert.Equal(t, "1234567890128", out.Barcode)

	rec, ok, err := store.Get("msg-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1234567890128", rec.Barcode)
}
