// Package pdf rasterizes invoice PDFs for barcode scanning.
//
// Documents are validated structurally with pdfcpu first, so corrupt or
// encrypted payloads fail with a terminal sentinel instead of surfacing as an
// opaque rasterizer error, then every page is rendered through MuPDF
// (go-fitz) at a resolution tuned for barcode legibility.
package pdf
