package intake

import (
	"mime"
	"path/filepath"
	"strings"
)

// Format is the extraction strategy selected for a document.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatImage Format = "image"
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatPDF, FormatImage, FormatText, FormatJSON, FormatCSV}
}

var mimeFormats = map[string]Format{
	"application/pdf":          FormatPDF,
	"text/plain":               FormatText,
	"application/json":         FormatJSON,
	"text/csv":                 FormatCSV,
	"application/vnd.ms-excel": FormatCSV,
}

var extFormats = map[string]Format{
	".pdf":  FormatPDF,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
	".png":  FormatImage,
	".bmp":  FormatImage,
	".tiff": FormatImage,
	".txt":  FormatText,
	".json": FormatJSON,
	".csv":  FormatCSV,
}

// ResolveFormat picks a format from the declared MIME type, falling back to
// the filename extension. Both comparisons are case-insensitive and MIME
// parameters are ignored.
func ResolveFormat(contentType, filename string) (Format, bool) {
	if mt := mediaType(contentType); mt != "" {
		if f, ok := mimeFormats[mt]; ok {
			return f, true
		}
		if strings.HasPrefix(mt, "image/") {
			return FormatImage, true
		}
	}
	if f, ok := extFormats[Extension(filename)]; ok {
		return f, true
	}
	return "", false
}

// Extension returns the lower-cased extension of filename including the dot,
// or "" when there is none.
func Extension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

func mediaType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

//Personal.AI order the ending
