package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// SourceKind identifies where a job description came from
type SourceKind string

// Source kinds
const (
	SourceInline SourceKind = "inline"
	SourceFile   SourceKind = "file"
	SourceURL    SourceKind = "url"
)

// Metadata describes an ingested job description
type Metadata struct {
	Kind      SourceKind `json:"kind"`
	Location  string     `json:"location,omitempty"` // file path or URL
	Platform  Platform   `json:"platform,omitempty"` // job board, URL sources only
	Rendered  bool       `json:"rendered,omitempty"` // text came from the headless browser
	Timestamp string     `json:"timestamp"`          // RFC3339
	Hash      string     `json:"hash"`               // SHA256 hex digest of the cleaned text
	Chars     int        `json:"chars"`
}

// NewMetadata creates metadata for cleaned content with the current timestamp
func NewMetadata(kind SourceKind, location, content string) *Metadata {
	return &Metadata{
		Kind:      kind,
		Location:  location,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
		Chars:     len([]rune(content)),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
