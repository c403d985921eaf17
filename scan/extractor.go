package scan

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/emersion/go-mbox"
	"github.com/jhillyerd/enmime"
	"github.com/klauspost/compress/gzip"
	"github.com/ledongthuc/pdf"
	"github.com/richardlehane/mscfb"
)

// Extractor defines the interface for extracting text from binary or encoded document formats
type Extractor interface {
	// ExtractText takes raw file bytes and returns extracted plain text
	ExtractText(data []byte) (string, error)
}

// ExtractorRegistry holds extractors for different file types
type ExtractorRegistry struct {
	extractors map[string]Extractor
}

// NewExtractorRegistry creates a new registry with built-in extractors
func NewExtractorRegistry() *ExtractorRegistry {
	reg := &ExtractorRegistry{
		extractors: make(map[string]Extractor),
	}
	reg.registerBuiltIns()
	return reg
}

// GetExtractor returns the extractor for a given file extension (without dot)
func (r *ExtractorRegistry) GetExtractor(ext string) (Extractor, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	extractor, exists := r.extractors[ext]
	return extractor, exists
}

// registerBuiltIns registers the built-in extractors for supported formats
func (r *ExtractorRegistry) registerBuiltIns() {
	// Email formats
	r.extractors["eml"] = &EMLExtractor{}
	r.extractors["mbox"] = &MBOXExtractor{}

	// Office document formats
	r.extractors["docx"] = &DOCXExtractor{}
	r.extractors["odt"] = &ODTExtractor{}
	r.extractors["doc"] = &DOCExtractor{}

	// Web formats
	r.extractors["html"] = &HTMLExtractor{}
	r.extractors["htm"] = &HTMLExtractor{}
	r.extractors["xml"] = &XMLExtractor{}

	// Other
	r.extractors["rtf"] = &RTFExtractor{}
	r.extractors["pdf"] = &PDFExtractor{}
}

// IsBinaryFormat checks if a file extension requires text extraction.
// Plain text formats bypass extraction entirely so that reported line and
// column coordinates refer to the file itself; for the formats below they
// refer to the extracted text.
func IsBinaryFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx", ".odt", ".doc", ".rtf", ".pdf", ".gz":
		return true
	case ".eml", ".mbox":
		// EML/MBOX can be text but often encoded
		return true
	default:
		return false
	}
}

// DecompressGzip inflates gzip data so compressed documents can be
// re-dispatched on their inner extension.
func DecompressGzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// HTMLExtractor extracts text from .html files
type HTMLExtractor struct{}

// ExtractText implements the Extractor interface for HTML files
func (e *HTMLExtractor) ExtractText(data []byte) (string, error) {
	html := DecodeText(data)
	text := regexp.MustCompile(`(?s)<style[^>]*>.*?</style>`).ReplaceAllString(html, " ")
	text = regexp.MustCompile(`(?s)<script[^>]*>.*?</script>`).ReplaceAllString(text, " ")
	text = regexp.MustCompile(`<[^>]*>`).ReplaceAllString(text, " ")
	// Simple entity decoding
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&apos;", "'")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	return strings.TrimSpace(text), nil
}

// XMLExtractor extracts text from .xml files
type XMLExtractor struct{}

// ExtractText implements the Extractor interface for XML files
func (e *XMLExtractor) ExtractText(data []byte) (string, error) {
	xml := DecodeText(data)
	text := regexp.MustCompile(`<[^>]*>`).ReplaceAllString(xml, " ")
	return strings.TrimSpace(text), nil
}

// EMLExtractor extracts text from .eml files (MIME messages)
type EMLExtractor struct{}

// ExtractText implements the Extractor interface for EML files
func (e *EMLExtractor) ExtractText(data []byte) (string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse EML: %w", err)
	}

	// Prefer plain text, fallback to HTML if plain text is empty
	text := env.Text
	if text == "" && env.HTML != "" {
		stripped, _ := (&HTMLExtractor{}).ExtractText([]byte(env.HTML))
		text = stripped
	}

	return strings.TrimSpace(text), nil
}

// MBOXExtractor extracts text from .mbox files (collections of MIME messages)
type MBOXExtractor struct{}

// ExtractText implements the Extractor interface for MBOX files
func (e *MBOXExtractor) ExtractText(data []byte) (string, error) {
	reader := mbox.NewReader(bytes.NewReader(data))
	var text strings.Builder

	emlExtractor := &EMLExtractor{}

	for {
		msg, err := reader.NextMessage()
		if err != nil {
			break
		}
		content, err := io.ReadAll(msg)
		if err != nil {
			continue
		}
		extracted, err := emlExtractor.ExtractText(content)
		if err != nil {
			continue
		}
		text.WriteString(extracted)
		text.WriteString("\n\n")
	}

	if text.Len() == 0 {
		return DecodeText(data), nil
	}
	return text.String(), nil
}

// DOCXExtractor extracts text from .docx files (Office Open XML)
type DOCXExtractor struct{}

// ExtractText implements the Extractor interface for DOCX files
func (e *DOCXExtractor) ExtractText(data []byte) (string, error) {
	return extractZipEntry(data, "word/document.xml")
}

// ODTExtractor extracts text from .odt files (OpenDocument Text)
type ODTExtractor struct{}

// ExtractText implements the Extractor interface for ODT files
func (e *ODTExtractor) ExtractText(data []byte) (string, error) {
	return extractZipEntry(data, "content.xml")
}

// extractZipEntry pulls one XML entry out of a zip container and strips its
// tags. Paragraph-level tags become newlines first so line numbers in the
// extracted text track the document's paragraphs.
func extractZipEntry(data []byte, target string) (string, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}

	for _, file := range zipReader.File {
		if file.Name != target {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		text := regexp.MustCompile(`</(?:w:p|text:p)>`).ReplaceAllString(string(content), "\n")
		text = regexp.MustCompile(`<[^>]*>`).ReplaceAllString(text, " ")
		return strings.TrimSpace(text), nil
	}

	return "", fmt.Errorf("archive has no %s entry", target)
}

// RTFExtractor extracts text from .rtf files (Rich Text Format)
type RTFExtractor struct{}

// ExtractText implements the Extractor interface for RTF files
func (e *RTFExtractor) ExtractText(data []byte) (string, error) {
	text := string(data)

	// \par marks a paragraph break; keep it as a newline before the general
	// control-word sweep removes everything else.
	text = regexp.MustCompile(`\\par[d]?\b`).ReplaceAllString(text, "\n")
	text = regexp.MustCompile(`\\[a-z]+-?\d*`).ReplaceAllString(text, "")
	text = regexp.MustCompile(`\\[^a-z]`).ReplaceAllString(text, "")

	// Remove braces
	text = strings.ReplaceAll(text, "{", "")
	text = strings.ReplaceAll(text, "}", "")

	return strings.TrimSpace(text), nil
}

// PDFExtractor extracts text from .pdf files
type PDFExtractor struct{}

// ExtractText implements the Extractor interface for PDF files
func (e *PDFExtractor) ExtractText(data []byte) (out string, err error) {
	// Guard against any panics from the PDF library.
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = fmt.Errorf("pdf extraction panicked")
		}
	}()

	reader, rerr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if rerr != nil {
		return "", fmt.Errorf("failed to open PDF: %w", rerr)
	}

	var b strings.Builder

	// Safely obtain number of pages (library may panic on malformed PDFs).
	pages := 0
	func() {
		defer func() { _ = recover() }()
		pages = reader.NumPage()
	}()

	if pages <= 0 {
		return "", fmt.Errorf("PDF has no readable pages")
	}

	// Extract text page-by-page with panic protection for each page.
	for i := 1; i <= pages; i++ {
		func() {
			defer func() { _ = recover() }()
			page := reader.Page(i)
			if page.V.IsNull() {
				return
			}
			content := page.Content()
			for _, item := range content.Text {
				b.WriteString(item.S)
				b.WriteString(" ")
			}
			b.WriteString("\n")
		}()
	}

	extracted := strings.TrimSpace(b.String())
	if extracted == "" {
		return "", fmt.Errorf("PDF yielded no text")
	}
	return extracted, nil
}

// DOCExtractor salvages text from legacy .doc files (OLE compound files).
type DOCExtractor struct{}

// docTextStreams are the streams of a Word compound file that commonly carry
// body text.
var docTextStreams = map[string]bool{
	"WordDocument": true,
	"1Table":       true,
	"0Table":       true,
}

// ExtractText implements the Extractor interface for DOC files
func (e *DOCExtractor) ExtractText(data []byte) (string, error) {
	cf, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to open compound file: %w", err)
	}

	var b strings.Builder
	for ent, err := cf.Next(); err == nil; ent, err = cf.Next() {
		if !docTextStreams[ent.Name] {
			continue
		}
		stream, rerr := io.ReadAll(io.LimitReader(ent, 4*1024*1024))
		if rerr != nil || len(stream) == 0 {
			continue
		}
		b.WriteString(salvageDocText(stream))
		b.WriteString("\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("no text streams found")
	}
	return text, nil
}

// salvageDocText recovers readable text from a raw .doc stream: UTF-16 when
// the byte pattern supports it, otherwise printable ASCII with everything
// else collapsed to spaces.
func salvageDocText(data []byte) string {
	if s, ok := decodeUTF16Heuristic(data); ok {
		return strings.TrimSpace(s)
	}

	buf := make([]rune, 0, len(data))
	for _, c := range data {
		if c == 0x09 || c == 0x0a || c == 0x0d || (c >= 0x20 && c <= 0x7e) {
			buf = append(buf, rune(c))
		} else {
			buf = append(buf, ' ')
		}
	}
	return strings.TrimSpace(string(buf))
}
