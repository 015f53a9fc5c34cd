package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// ModifiedBy records who touched a configuration and when.
type ModifiedBy struct {
	User      string
	Timestamp time.Time
}

// Header carries the identifying metadata of a configuration document.
type Header struct {
	ID               string
	ApplicationGroup string
	ApplicationName  string
	Name             string
	Version          string
	Description      string
	CreatedBy        *ModifiedBy
	UpdatedBy        *ModifiedBy
}

// NewHeader returns a header with a fresh id and both audit records set to user at the current time.
func NewHeader(group, application, name, version, user string) *Header {
	now := time.Now().UTC()

	return &Header{
		ID:               uuid.NewString(),
		ApplicationGroup: group,
		ApplicationName:  application,
		Name:             name,
		Version:          version,
		Description:      "",
		CreatedBy:        &ModifiedBy{User: user, Timestamp: now},
		UpdatedBy:        &ModifiedBy{User: user, Timestamp: now},
	}
}

// Validate checks that every required header field is present and the version parses.
func (h *Header) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"ID", h.ID},
		{"ApplicationGroup", h.ApplicationGroup},
		{"ApplicationName", h.ApplicationName},
		{"Name", h.Name},
		{"Version", h.Version},
	}

	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s", ErrPropertyMissing, field.name)
		}
	}

	_, err := h.SemVer()
	if err != nil {
		return err
	}

	err = h.CreatedBy.validate("CreatedBy")
	if err != nil {
		return err
	}

	return h.UpdatedBy.validate("UpdatedBy")
}

// SemVer parses the header version.
func (h *Header) SemVer() (*semver.Version, error) {
	version, err := semver.NewVersion(h.Version)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidVersion, h.Version, err)
	}

	return version, nil
}

func (m *ModifiedBy) validate(field string) error {
	if m == nil {
		return fmt.Errorf("%w: %s", ErrPropertyMissing, field)
	}

	if m.User == "" {
		return fmt.Errorf("%w: %s.User", ErrPropertyMissing, field)
	}

	if m.Timestamp.IsZero() {
		return fmt.Errorf("%w: %s.Timestamp", ErrPropertyMissing, field)
	}

	return nil
}

// ParseTimestamp accepts RFC 3339 text or Unix milliseconds.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	millis, err := strconv.ParseInt(value, 10, 64)
	if err == nil {
		return time.UnixMilli(millis).UTC(), nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", value, err)
	}

	return parsed, nil
}

// FormatTimestamp renders t the way ParseTimestamp reads it back.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
