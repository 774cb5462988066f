package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/deepresearch/internal/model"
)

// DefaultMaxBytes is the largest accepted photo.
const DefaultMaxBytes = 5 * 1024 * 1024

var (
	// ErrEmpty is returned for an empty upload.
	ErrEmpty = errors.New("photo is empty")

	// ErrTooLarge is returned when the decoded photo exceeds the size limit.
	ErrTooLarge = errors.New("photo is too large")

	// ErrNotImage is returned when the upload is not a supported image.
	ErrNotImage = errors.New("photo is not a supported image")

	// ErrInvalidDataURI is returned for a malformed data URI.
	ErrInvalidDataURI = errors.New("invalid data URI")

	// ErrLocationEmbedded is returned when the photo carries GPS coordinates
	// and such photos are rejected.
	ErrLocationEmbedded = errors.New("photo contains GPS coordinates; strip its metadata and upload again")
)

// supportedTypes are the sniffed content types accepted as a photo.
var supportedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// tagRule classifies one EXIF tag.
type tagRule struct {
	kind        string
	risk        model.Risk
	description string
}

// tagRules lists the EXIF tags that disclose something about the author.
var tagRules = func() map[string]tagRule {
	rules := make(map[string]tagRule)
	add := func(rule tagRule, tags ...string) {
		for _, tag := range tags {
			rules[tag] = rule
		}
	}
	add(tagRule{"gps", model.RiskCritical, "Reveals where the photo was taken."},
		"GPSLatitude", "GPSLongitude", "GPSLatitudeRef", "GPSLongitudeRef", "GPSAltitude")
	add(tagRule{"serial", model.RiskHigh, "A device serial number tracks the camera across photos."},
		"SerialNumber", "CameraSerialNumber", "BodySerialNumber", "LensSerialNumber")
	add(tagRule{"author", model.RiskHigh, "Names the creator of the photo."},
		"Artist", "Author", "Copyright", "XPAuthor", "CameraOwnerName")
	add(tagRule{"camera", model.RiskMedium, "Identifies the device used."},
		"Make", "Model", "LensModel")
	add(tagRule{"computer", model.RiskMedium, "Names the computer that processed the photo."},
		"HostComputer")
	add(tagRule{"software", model.RiskLow, "Reveals the editing tools or operating system."},
		"Software", "ProcessingSoftware")
	add(tagRule{"datetime", model.RiskLow, "Timestamps help infer time zone and activity patterns."},
		"DateTimeOriginal", "DateTimeDigitized", "DateTime")
	return rules
}()

// Auditor validates founder photo uploads and reports their metadata.
type Auditor struct {
	maxBytes  int
	rejectGPS bool
	logger    *slog.Logger
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithMaxBytes sets the size limit of the decoded image.
func WithMaxBytes(n int) Option {
	return func(a *Auditor) {
		if n > 0 {
			a.maxBytes = n
		}
	}
}

// WithRejectGPS refuses photos that carry GPS coordinates.
func WithRejectGPS(reject bool) Option {
	return func(a *Auditor) {
		a.rejectGPS = reject
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// NewAuditor creates an Auditor. GPS rejection is on by default.
func NewAuditor(opts ...Option) *Auditor {
	a := &Auditor{
		maxBytes:  DefaultMaxBytes,
		rejectGPS: true,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Prepare turns an upload (raw image bytes or a data URI) into the data URI
// that is stored, after checking its size and type and auditing its EXIF
// metadata. The audit is returned even when the photo is rejected.
func (a *Auditor) Prepare(upload []byte) (string, *model.PhotoAudit, error) {
	data, err := Decode(upload)
	if err != nil {
		return "", nil, err
	}

	audit, err := a.Audit(data)
	if err != nil {
		return "", nil, err
	}
	if a.rejectGPS && audit.HasLocation() {
		a.logger.Warn("photo rejected", "reason", "gps", "findings", len(audit.Findings))
		return "", audit, ErrLocationEmbedded
	}

	return EncodeDataURI(audit.MIMEType, data), audit, nil
}

// Audit checks the size and type of data and reports the EXIF tags that
// disclose something about the author. Images without EXIF have no findings.
func (a *Auditor) Audit(data []byte) (*model.PhotoAudit, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > a.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), a.maxBytes)
	}

	mimeType := http.DetectContentType(data)
	if !supportedTypes[mimeType] {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, mimeType)
	}

	audit := &model.PhotoAudit{
		MIMEType: mimeType,
		Size:     len(data),
		Findings: make([]model.PhotoFinding, 0),
	}

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return audit, nil
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		a.logger.Debug("unreadable EXIF block", "error", err)
		return audit, nil
	}

	audit.Findings = findingsFor(entries)
	return audit, nil
}

// findingsFor classifies EXIF entries, keeping the first value of each tag.
func findingsFor(entries []exif.ExifTag) []model.PhotoFinding {
	findings := make([]model.PhotoFinding, 0)
	seen := make(map[string]bool)
	for _, entry := range entries {
		rule, ok := tagRules[entry.TagName]
		if !ok || seen[entry.TagName] {
			continue
		}
		seen[entry.TagName] = true
		findings = append(findings, model.PhotoFinding{
			Kind:        rule.kind,
			Tag:         entry.TagName,
			Value:       strings.TrimSpace(entry.Formatted),
			Risk:        rule.risk,
			Description: rule.description,
		})
	}
	return findings
}

// Decode returns the image bytes of an upload. A data URI is decoded;
// anything else is taken as raw image bytes.
func Decode(upload []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(upload)
	if len(trimmed) == 0 {
		return nil, ErrEmpty
	}
	if !bytes.HasPrefix(trimmed, []byte("data:")) {
		return upload, nil
	}

	header, payload, ok := strings.Cut(string(trimmed), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some encoders emit URL-safe base64.
		data, err = base64.URLEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
		}
	}
	return data, nil
}

// EncodeDataURI builds the stored form of a photo.
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
