package ingestion

import (
	"context"
	"fmt"
)

// Source names where the job description should be read from.
// File and URL are mutually exclusive; either one replaces Text.
type Source struct {
	Text string
	File string
	URL  string
}

// Load returns the cleaned job description for src
func Load(ctx context.Context, src Source, opts *FetchOptions) (string, *Metadata, error) {
	if src.File != "" && src.URL != "" {
		return "", nil, fmt.Errorf("job description file and URL are mutually exclusive")
	}

	switch {
	case src.URL != "":
		return FromURL(ctx, src.URL, opts)
	case src.File != "":
		return FromFile(src.File)
	default:
		return FromText(src.Text)
	}
}
