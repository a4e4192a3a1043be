package dto

type DocumentKind string

const (
	DocKindPDF   DocumentKind = "pdf"
	DocKindImage DocumentKind = "image"
	DocKindSheet DocumentKind = "spreadsheet"
	DocKindText  DocumentKind = "text"
)

// DocumentReport describes what happened to one statement before it was forwarded
type DocumentReport struct {
	Filename      string       `json:"filename"`
	ForwardedAs   string       `json:"forwarded_as"`
	Kind          DocumentKind `json:"kind"`
	Pages         int          `json:"pages,omitempty"`
	Decrypted     bool         `json:"decrypted,omitempty"`
	HasTextLayer  bool         `json:"has_text_layer,omitempty"`
	OcrConfidence float64      `json:"ocr_confidence,omitempty"`
	Issues        []string     `json:"issues,omitempty"`
}
