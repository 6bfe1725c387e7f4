// Package barcode decodes billing barcodes from rendered invoice pages.
//
// The scanner runs a fixed battery of ZXing decoders (1D multi-format,
// PDF417, QR, DataMatrix, Aztec) over each page image and returns every
// payload found. Policy decisions such as "first barcode wins" belong to the
// caller; the scanner itself always reports the full set for a page.
package barcode
