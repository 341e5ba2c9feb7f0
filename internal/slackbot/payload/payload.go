// Package payload serializes a subscription snapshot into the opaque
// token carried through Slack UI elements. The platform round-trips the
// token byte-for-byte, which is the only session state this bot has.
package payload

import (
	"fmt"

	"github.com/go-faster/jx"
	"github.com/pkg/errors"

	"wecom-bot/internal/stories/subscription"
)

// Version tags the encoding so tokens from older deployments fail
// closed instead of being half-read.
const Version = 1

// MaxEncodedSize is the tightest ceiling among the Slack fields the
// token travels through (button value: 2000, modal private_metadata:
// 3000).
const MaxEncodedSize = 2000

var (
	// ErrMalformed marks tokens that are not well-formed serialized data.
	ErrMalformed = errors.New("workflow context: malformed")
	// ErrTooLarge marks snapshots whose encoding would exceed the
	// transport ceiling. Encoding never truncates.
	ErrTooLarge = errors.New("workflow context: too large")
)

// Encode serializes a snapshot into an opaque token. Fields are written
// in a fixed order, so the encoding is deterministic.
func Encode(s subscription.Snapshot) (string, error) {
	var e jx.Encoder

	e.ObjStart()
	e.FieldStart("v")
	e.Int(Version)
	e.FieldStart("number")
	e.Str(s.Number)
	e.FieldStart("startDate")
	e.Str(s.StartDate)
	e.FieldStart("endDate")
	e.Str(s.EndDate)
	e.FieldStart("isActive")
	e.Bool(s.IsActive)
	e.FieldStart("usage")
	e.ObjStart()
	e.FieldStart("voiceUsed")
	e.Float64(s.Usage.VoiceUsed)
	e.FieldStart("voiceSize")
	e.Float64(s.Usage.VoiceSize)
	e.FieldStart("messagesUsed")
	e.Float64(s.Usage.MessagesUsed)
	e.FieldStart("messagesSize")
	e.Float64(s.Usage.MessagesSize)
	e.FieldStart("internetUsed")
	e.Float64(s.Usage.InternetUsed)
	e.FieldStart("internetSize")
	e.Float64(s.Usage.InternetSize)
	e.FieldStart("externalVoiceUsed")
	e.Float64(s.Usage.ExternalVoiceUsed)
	e.FieldStart("externalVoiceSize")
	e.Float64(s.Usage.ExternalVoiceSize)
	e.FieldStart("packageUsage")
	e.Float64(s.Usage.PackageUsage)
	e.ObjEnd()
	e.ObjEnd()

	token := e.String()
	if len(token) > MaxEncodedSize {
		return "", fmt.Errorf("%w: %d bytes, ceiling %d", ErrTooLarge, len(token), MaxEncodedSize)
	}
	return token, nil
}

// Decode parses and validates an opaque token. Any input that is not a
// complete, current-version context fails with ErrMalformed; a
// malformed token is never partially trusted.
func Decode(token string) (subscription.Snapshot, error) {
	if len(token) > MaxEncodedSize {
		return subscription.Snapshot{}, fmt.Errorf("%w: %d bytes, ceiling %d", ErrTooLarge, len(token), MaxEncodedSize)
	}

	var (
		s          subscription.Snapshot
		version    int
		seen       = map[string]bool{}
		sawVersion bool
	)

	d := jx.DecodeStr(token)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if seen[key] {
			return fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = true

		var err error
		switch key {
		case "v":
			version, err = d.Int()
			sawVersion = true
		case "number":
			s.Number, err = d.Str()
		case "startDate":
			s.StartDate, err = d.Str()
		case "endDate":
			s.EndDate, err = d.Str()
		case "isActive":
			s.IsActive, err = d.Bool()
		case "usage":
			err = decodeUsage(d, &s.Usage)
		default:
			return fmt.Errorf("unknown key %q", key)
		}
		return err
	})
	if err != nil {
		return subscription.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if !sawVersion || version != Version {
		return subscription.Snapshot{}, fmt.Errorf("%w: unsupported version %d", ErrMalformed, version)
	}
	for _, required := range []string{"number", "startDate", "endDate", "isActive", "usage"} {
		if !seen[required] {
			return subscription.Snapshot{}, fmt.Errorf("%w: missing %s", ErrMalformed, required)
		}
	}
	if s.Number == "" {
		return subscription.Snapshot{}, fmt.Errorf("%w: empty number", ErrMalformed)
	}
	return s, nil
}

func decodeUsage(d *jx.Decoder, u *subscription.Usage) error {
	seen := map[string]bool{}
	return d.Obj(func(d *jx.Decoder, key string) error {
		if seen[key] {
			return fmt.Errorf("duplicate usage key %q", key)
		}
		seen[key] = true

		var err error
		switch key {
		case "voiceUsed":
			u.VoiceUsed, err = d.Float64()
		case "voiceSize":
			u.VoiceSize, err = d.Float64()
		case "messagesUsed":
			u.MessagesUsed, err = d.Float64()
		case "messagesSize":
			u.MessagesSize, err = d.Float64()
		case "internetUsed":
			u.InternetUsed, err = d.Float64()
		case "internetSize":
			u.InternetSize, err = d.Float64()
		case "externalVoiceUsed":
			u.ExternalVoiceUsed, err = d.Float64()
		case "externalVoiceSize":
			u.ExternalVoiceSize, err = d.Float64()
		case "packageUsage":
			u.PackageUsage, err = d.Float64()
		default:
			return fmt.Errorf("unknown usage key %q", key)
		}
		return err
	})
}
