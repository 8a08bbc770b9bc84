// Package document defines the data model shared by every pipeline stage:
// pages with positioned words on the input side, sections and chunks on the
// output side, plus the JSON artifact envelopes written between stages.
package document

// Word is a positioned piece of text on a page. Size and Fontname are nil
// when the source format carries no font metadata.
type Word struct {
	Text     string   `json:"text"`
	X0       float64  `json:"x0"`
	Top      float64  `json:"top"`
	Size     *float64 `json:"size,omitempty"`
	Fontname *string  `json:"fontname,omitempty"`
}

// Page is one page of a source document as supplied by a page source.
// Words may be empty when word-level extraction is disabled or unsupported.
type Page struct {
	PageNumber int     `json:"page_number"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	Text       string  `json:"text"`
	Words      []Word  `json:"words,omitempty"`
}

// Section is one node of the heuristic document outline. ParentID, when set,
// always references a section created earlier in the same run.
type Section struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	PageNumber int     `json:"page_number"`
	Level      int     `json:"level"`
	ParentID   *string `json:"parent_id"`
}

// Chunk kinds.
const (
	KindParagraph = "paragraph"
	KindTable     = "table"
)

// Chunk is a contiguous run of same-kind lines scoped to one section.
type Chunk struct {
	ID          string   `json:"id"`
	SectionID   string   `json:"section_id"`
	SectionPath []string `json:"section_path"`
	PageNumber  int      `json:"page_number"`
	Kind        string   `json:"kind"`
	Text        string   `json:"text"`
	LineCount   int      `json:"line_count"`
}

// PagesPayload is the raw-pages artifact written by the ingest step.
type PagesPayload struct {
	SourceFile string `json:"source_file"`
	PageCount  int    `json:"page_count"`
	Pages      []Page `json:"pages"`
}

// SectionsPayload is the artifact written by the segmentation step.
type SectionsPayload struct {
	SourceFile   string    `json:"source_file"`
	SectionCount int       `json:"section_count"`
	Sections     []Section `json:"sections"`
}

// ChunksPayload is the artifact written by the chunking step.
type ChunksPayload struct {
	SourceFile string  `json:"source_file"`
	ChunkCount int     `json:"chunk_count"`
	Chunks     []Chunk `json:"chunks"`
}
