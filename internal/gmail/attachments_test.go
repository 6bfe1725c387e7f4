package gmail

import (
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{
			name:     "normal filename",
			filename: "racun-2026-08.pdf",
			want:     "racun-2026-08.pdf",
		},
		{
			name:     "filename with forward slash",
			filename: "path/to/racun.pdf",
			want:     "path_to_racun.pdf",
		},
		{
			name:     "filename with backslash",
			filename: "path\\to\\racun.pdf",
			want:     "path_to_racun.pdf",
		},
		{
			name:     "filename with parent directory",
			filename: "../../../etc/passwd",
			want:     "______etc_passwd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.filename); got != tt.want {
				t.Errorf("SanitizeFilename() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickPDF(t *testing.T) {
	tests := []struct {
		name        string
		attachments []*AttachmentInfo
		want        string // filename of the picked attachment, "" for none
	}{
		{
			name: "pdf by mime type",
			attachments: []*AttachmentInfo{
				{Filename: "logo.png", MimeType: "image/png"},
				{Filename: "invoice.pdf", MimeType: "application/pdf"},
			},
			want: "invoice.pdf",
		},
		{
			name: "pdf by extension with generic mime type",
			attachments: []*AttachmentInfo{
				{Filename: "Racun_12345.PDF", MimeType: "application/octet-stream"},
			},
			want: "Racun_12345.PDF",
		},
		{
			name: "first of several pdfs wins",
			attachments: []*AttachmentInfo{
				{Filename: "first.pdf", MimeType: "application/pdf"},
				{Filename: "second.pdf", MimeType: "application/pdf"},
			},
			want: "first.pdf",
		},
		{
			name: "no pdf",
			attachments: []*AttachmentInfo{
				{Filename: "barcode.png", MimeType: "image/png"},
			},
			want: "",
		},
		{
			name:        "empty list",
			attachments: nil,
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickPDF(tt.attachments)
			if tt.want == "" {
				if got != nil {
					t.Errorf("pickPDF() = %v, want nil", got)
				}
				return
			}
			if got == nil || got.Filename != tt.want {
				t.Errorf("pickPDF() = %v, want filename %q", got, tt.want)
			}
		})
	}
}

func TestWalkParts(t *testing.T) {
	tests := []struct {
		name          string
		part          *gmail.MessagePart
		expectedParts int
	}{
		{
			name: "single part",
			part: &gmail.MessagePart{
				PartId:   "0",
				MimeType: "text/plain",
			},
			expectedParts: 1,
		},
		{
			name: "nested parts",
			part: &gmail.MessagePart{
				PartId:   "0",
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						PartId:   "0.0",
						MimeType: "text/plain",
					},
					{
						PartId:   "0.1",
						MimeType: "multipart/alternative",
						Parts: []*gmail.MessagePart{
							{
								PartId:   "0.1.0",
								MimeType: "application/pdf",
							},
						},
					},
				},
			},
			expectedParts: 4,
		},
		{
			name:          "nil part",
			part:          nil,
			expectedParts: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count := 0
			walkParts(tt.part, func(*gmail.MessagePart) {
				count++
			})
			if count != tt.expectedParts {
				t.Errorf("walkParts() visited %d parts, want %d", count, tt.expectedParts)
			}
		})
	}
}
