package gmail

import (
	"testing"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

func TestBuildQuery(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		sender    string
		sinceDays int
		want      string
	}{
		{
			name:      "thirty day window",
			sender:    "noreply@example.com",
			sinceDays: 30,
			want:      "from:noreply@example.com after:2026/07/29 has:attachment",
		},
		{
			name:      "window crossing a year boundary",
			sender:    "e-racun@iskon.hr",
			sinceDays: 300,
			want:      "from:e-racun@iskon.hr after:2025/11/01 has:attachment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuery(tt.sender, tt.sinceDays, now); got != tt.want {
				t.Errorf("buildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSenderMatches(t *testing.T) {
	tests := []struct {
		name   string
		header string
		sender string
		want   bool
	}{
		{
			name:   "bare address",
			header: "noreply@example.com",
			sender: "noreply@example.com",
			want:   true,
		},
		{
			name:   "display name",
			header: "Iskon e-racun <e-racun@iskon.hr>",
			sender: "e-racun@iskon.hr",
			want:   true,
		},
		{
			name:   "case insensitive",
			header: "NoReply@Example.COM",
			sender: "noreply@example.com",
			want:   true,
		},
		{
			name:   "different address",
			header: "billing@other.com",
			sender: "noreply@example.com",
			want:   false,
		},
		{
			name:   "same display name different address",
			header: "Iskon <spoof@evil.example>",
			sender: "e-racun@iskon.hr",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := senderMatches(tt.header, tt.sender); got != tt.want {
				t.Errorf("senderMatches(%q, %q) = %v, want %v", tt.header, tt.sender, got, tt.want)
			}
		})
	}
}

func TestHeaderValue(t *testing.T) {
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "e-racun@iskon.hr"},
				{Name: "Subject", Value: "Racun za kolovoz"},
			},
		},
	}

	if got := HeaderValue(msg, "from"); got != "e-racun@iskon.hr" {
		t.Errorf("HeaderValue(from) = %q", got)
	}
	if got := HeaderValue(msg, "Subject"); got != "Racun za kolovoz" {
		t.Errorf("HeaderValue(Subject) = %q", got)
	}
	if got := HeaderValue(msg, "Date"); got != "" {
		t.Errorf("HeaderValue(Date) = %q, want empty", got)
	}
	if got := HeaderValue(nil, "From"); got != "" {
		t.Errorf("HeaderValue(nil) = %q, want empty", got)
	}
}

func TestEncodeRFC2047(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		encoded bool
	}{
		{name: "ascii passes through", in: "Invoice summary", encoded: false},
		{name: "diacritics get encoded", in: "Račun za plaćanje", encoded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeRFC2047(tt.in)
			if tt.encoded {
				if got == tt.in {
					t.Errorf("encodeRFC2047(%q) not encoded", tt.in)
				}
			} else if got != tt.in {
				t.Errorf("encodeRFC2047(%q) = %q, want unchanged", tt.in, got)
			}
		})
	}
}
