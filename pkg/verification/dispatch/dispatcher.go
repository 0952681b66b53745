package dispatch

import (
	"mime"
	"path/filepath"
	"strings"

	"ai-verification-be/pkg/verification/schema"

	"github.com/gabriel-vasile/mimetype"
)

// Format names the extractor that turns raw bytes into evaluator content
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatDOCX  Format = "docx"
	FormatDOC   Format = "doc"
	FormatPlain Format = "plain"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
	FormatXLS   Format = "xls"
	FormatImage Format = "image"
	// FormatNone has no extractor; extraction yields empty content
	FormatNone Format = "none"
)

const octetStream = "application/octet-stream"

// Route is the dispatch decision for one document
type Route struct {
	Category schema.Category
	Format   Format
	MIMEType string
}

var extensionFormats = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".doc":  FormatDOC,
	".txt":  FormatPlain,
	".csv":  FormatCSV,
	".xlsx": FormatXLSX,
	".xls":  FormatXLS,
}

var mimeFormats = map[string]Format{
	"application/pdf": FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"application/msword": FormatDOC,
	"text/csv":           FormatCSV,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": FormatXLSX,
	"application/vnd.ms-excel": FormatXLS,
}

// Dispatcher picks the pipeline for a document. It never rejects: anything
// unrecognised is routed to the text workflow.
type Dispatcher struct{}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Route sniffs the MIME type from content, falling back to the filename
// extension when the content is opaque. Plain text is only extracted for a
// known text extension; other text/* content routes to unknown and extracts
// nothing.
func (d *Dispatcher) Route(doc schema.Document) Route {
	ext := strings.ToLower(filepath.Ext(doc.Name))
	mimeType := sniff(doc.Data, ext)
	base := baseType(mimeType)

	format, known := extensionFormats[ext]
	if !known {
		format, known = mimeFormats[base]
	}

	switch {
	case strings.HasPrefix(base, "image/"):
		return Route{Category: schema.CategoryImage, Format: FormatImage, MIMEType: base}
	case known && (format == FormatCSV || format == FormatXLSX || format == FormatXLS):
		return Route{Category: schema.CategoryCSV, Format: format, MIMEType: base}
	case known:
		return Route{Category: schema.CategoryText, Format: format, MIMEType: base}
	default:
		return Route{Category: schema.CategoryUnknown, Format: FormatNone, MIMEType: base}
	}
}

func sniff(data []byte, ext string) string {
	if len(data) > 0 {
		if detected := mimetype.Detect(data); detected.String() != octetStream {
			return detected.String()
		}
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	return octetStream
}

func baseType(mimeType string) string {
	if media, _, err := mime.ParseMediaType(mimeType); err == nil {
		return media
	}
	return strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
}
