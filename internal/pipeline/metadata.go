package pipeline

import (
	"regexp"
	"strings"

	"github.com/pricerhq/takeoff/internal/document"
)

// Header-field patterns seen across vendor RFQ and requisition layouts.
// Matching is best effort; a miss leaves the field empty.
var (
	clientPattern = regexp.MustCompile(`(?im)^[ \t]*(?:client|customer|company|buyer)[ \t]*[:\-][ \t]*(.+)$`)
	rfqPattern    = regexp.MustCompile(`(?i)\b(?:RFQ|RFP|MR|PR|REQ)[ \t]*(?:no\.?|#|ref\.?|reference)?[ \t]*[:\-]?[ \t]*([A-Z0-9][A-Z0-9/_.\-]{2,})`)
	datePatterns  = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
		regexp.MustCompile(`\b(\d{1,2}[./-]\d{1,2}[./-]\d{4})\b`),
		regexp.MustCompile(`(?i)\b(\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{4})\b`),
	}
)

// ScanMetadata pulls best-effort header information out of the raw OCR text.
func ScanMetadata(text string) document.Metadata {
	var md document.Metadata
	if strings.TrimSpace(text) == "" {
		return md
	}

	if m := clientPattern.FindStringSubmatch(text); m != nil {
		md.ClientName = strings.TrimSpace(m[1])
	}
	if m := rfqPattern.FindStringSubmatch(text); m != nil {
		md.RFQReference = strings.TrimSpace(m[1])
	}
	for _, p := range datePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			md.Date = strings.TrimSpace(m[1])
			break
		}
	}
	return md
}
