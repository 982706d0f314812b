// Package intake is the claims intake application service: it extracts text
// from an uploaded document, pulls claim fields out of it, classifies and
// routes the claim, and assembles the result returned to the uploader.
package intake

// Document is one uploaded file. Content is read once by the text extractor
// and never modified.
type Document struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Size returns the content length in bytes.
func (d Document) Size() int { return len(d.Content) }

//Personal.AI order the ending
