package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
	MaxAttachmentSize = 25 * 1024 * 1024

	pdfMimeType = "application/pdf"
)

// ListAttachments extracts all attachment metadata from a message.
func (c *Client) ListAttachments(ctx context.Context, messageID string) ([]*AttachmentInfo, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}

	var attachments []*AttachmentInfo
	walkParts(msg.Payload, func(part *gmail.MessagePart) {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			attachments = append(attachments, &AttachmentInfo{
				MessageID:    messageID,
				PartID:       part.PartId,
				AttachmentID: part.Body.AttachmentId,
				Filename:     part.Filename,
				MimeType:     part.MimeType,
				Size:         part.Body.Size,
			})
		}
	})

	return attachments, nil
}

// FetchPDF retrieves the binary payload of the first PDF attachment of the
// candidate message. Returns ErrNoPDFAttachment when no part qualifies.
func (c *Client) FetchPDF(ctx context.Context, candidate InvoiceCandidate) (string, []byte, error) {
	attachments, err := c.ListAttachments(ctx, candidate.MessageID)
	if err != nil {
		return "", nil, err
	}

	info := pickPDF(attachments)
	if info == nil {
		return "", nil, ErrNoPDFAttachment
	}

	data, err := c.getAttachment(ctx, candidate.MessageID, info.AttachmentID)
	if err != nil {
		return "", nil, err
	}
	return SanitizeFilename(info.Filename), data, nil
}

// pickPDF selects the first attachment whose content type indicates a PDF.
// Some senders mislabel the MIME type, so the filename extension counts too.
func pickPDF(attachments []*AttachmentInfo) *AttachmentInfo {
	for _, a := range attachments {
		if isPDF(a.MimeType, a.Filename) {
			return a
		}
	}
	return nil
}

func isPDF(mimeType, filename string) bool {
	if strings.EqualFold(mimeType, pdfMimeType) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

// getAttachment retrieves and decodes the content of an attachment.
func (c *Client) getAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	attachment, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}

	if attachment.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum size %d", attachment.Size, MaxAttachmentSize)
	}

	// Gmail API uses RFC 4648 base64url encoding
	data, err := base64.URLEncoding.DecodeString(attachment.Data)
	if err != nil {
		// Try with standard base64 if URLEncoding fails
		data, err = base64.StdEncoding.DecodeString(attachment.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachment data: %w", err)
		}
	}

	return data, nil
}

// walkParts recursively walks through message parts.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}

// SanitizeFilename sanitizes a filename to prevent path traversal attacks.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	return filename
}

// encodeRFC2047 encodes a string for use in email headers according to RFC 2047.
// Necessary for non-ASCII characters (like Croatian diacritics) in subjects.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

// encodeWebSafe encodes a raw RFC 2822 message in base64url format for the
// Gmail send API.
func encodeWebSafe(raw string) string {
	return base64.URLEncoding.EncodeToString([]byte(raw))
}
