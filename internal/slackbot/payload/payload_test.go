package payload

import (
	"errors"
	"strings"
	"testing"

	"wecom-bot/internal/stories/subscription"
)

func sampleSnapshot() subscription.Snapshot {
	return subscription.Snapshot{
		Number:    "0521234567",
		StartDate: "01/01/2025 00:00",
		EndDate:   "31/01/2025 00:00",
		IsActive:  true,
		Usage: subscription.Usage{
			VoiceUsed:         12,
			VoiceSize:         3000,
			MessagesUsed:      4,
			MessagesSize:      100,
			InternetUsed:      1536.5,
			InternetSize:      51200,
			ExternalVoiceUsed: 1,
			ExternalVoiceSize: 60,
			PackageUsage:      42.5,
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := sampleSnapshot()

	token, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode unexpected error: %v", err)
	}

	decoded, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode unexpected error: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	first, err := Encode(sampleSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Encode(sampleSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("encoding is not deterministic:\n %s\n %s", first, second)
	}
}

func TestEncodeTooLarge(t *testing.T) {
	s := sampleSnapshot()
	s.Number = strings.Repeat("9", MaxEncodedSize)

	if _, err := Encode(s); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Encode error = %v, want ErrTooLarge", err)
	}
}

func TestDecodeRejectsMalformedTokens(t *testing.T) {
	valid, err := Encode(sampleSnapshot())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not json", token: "not-a-token"},
		{name: "truncated", token: valid[:len(valid)-5]},
		{name: "empty object", token: "{}"},
		{name: "wrong version", token: strings.Replace(valid, `"v":1`, `"v":2`, 1)},
		{name: "unknown key", token: strings.Replace(valid, `"number"`, `"phone"`, 1)},
		{name: "empty number", token: strings.Replace(valid, `"number":"0521234567"`, `"number":""`, 1)},
		{
			name:  "missing usage",
			token: `{"v":1,"number":"0521234567","startDate":"01/01/2025 00:00","endDate":"31/01/2025 00:00","isActive":true}`,
		},
		{
			name:  "duplicate key",
			token: `{"v":1,"v":1,"number":"0521234567","startDate":"a","endDate":"b","isActive":true,"usage":{}}`,
		},
		{
			name:  "wrong value type",
			token: strings.Replace(valid, `"isActive":true`, `"isActive":"yes"`, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.token); !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode(%q) error = %v, want ErrMalformed", tt.token, err)
			}
		})
	}
}

func TestDecodeTooLarge(t *testing.T) {
	token := "{" + strings.Repeat(" ", MaxEncodedSize) + "}"
	if _, err := Decode(token); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Decode error = %v, want ErrTooLarge", err)
	}
}
