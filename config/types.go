package config

import (
	"slices"
	"strings"
)

// DocumentTypes defines the file extensions for prose-bearing documents
var DocumentTypes = []string{
	"txt", "md", "markdown", "rst", "tex", "adoc",
	"html", "htm", "xml",
	"eml", "mbox",
	"pdf", "doc", "docx", "odt", "rtf",
	"log",
}

// CodeTypes defines the file extensions for programming files; comments and
// string literals in these repeat-check the same way prose does
var CodeTypes = []string{
	"go", "js", "ts", "py", "rb", "rs", "java", "c", "cpp", "h",
	"sh", "sql", "php", "cs", "swift", "kt",
}

// IsDocumentFile checks if a file extension is a document type
func IsDocumentFile(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(getFileExtension(filename), "."))
	return slices.Contains(DocumentTypes, ext)
}

// IsCodeFile checks if a file extension is a code type
func IsCodeFile(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(getFileExtension(filename), "."))
	return slices.Contains(CodeTypes, ext)
}

// GetAllSupportedTypes returns all supported file types based on includeCode flag
func GetAllSupportedTypes(includeCode bool) []string {
	types := make([]string, len(DocumentTypes))
	copy(types, DocumentTypes)

	if includeCode {
		types = append(types, CodeTypes...)
	}

	return types
}

// BuildFileTypeMap creates a map for O(1) file type lookups
func BuildFileTypeMap(includeCode bool) map[string]bool {
	typeMap := make(map[string]bool)

	for _, ext := range DocumentTypes {
		typeMap["."+ext] = true
	}

	if includeCode {
		for _, ext := range CodeTypes {
			typeMap["."+ext] = true
		}
	}

	return typeMap
}

// getFileExtension extracts file extension from filename
func getFileExtension(filename string) string {
	lastDot := strings.LastIndex(filename, ".")
	if lastDot == -1 || lastDot == len(filename)-1 {
		return ""
	}
	return filename[lastDot:]
}

// IsHiddenFile checks if a file should be treated as hidden
func IsHiddenFile(filename string) bool {
	return strings.HasPrefix(filename, ".")
}

// ShouldSkipDirectory determines if a directory should be skipped during traversal
func ShouldSkipDirectory(dirName string) bool {
	skipDirs := map[string]bool{
		".git":          true,
		".svn":          true,
		".hg":           true,
		"node_modules":  true,
		".vscode":       true,
		".idea":         true,
		"__pycache__":   true,
		".pytest_cache": true,
		"vendor":        true,
		"target":        true,
		"build":         true,
		"dist":          true,
		".next":         true,
		".nuxt":         true,
		"coverage":      true,
		"tmp":           true,
		"temp":          true,
	}

	return skipDirs[dirName] || strings.HasPrefix(dirName, ".")
}

// GetFileTypeDescription returns a human-readable description of file types
func GetFileTypeDescription(includeCode bool) string {
	if includeCode {
		return "documents (txt, md, rst, tex, html, xml, eml, mbox, pdf, doc, docx, odt, rtf, log) + code files (go, js, ts, py, rb, rs, java, c, cpp, sh, sql)"
	}
	return "documents (txt, md, rst, tex, html, xml, eml, mbox, pdf, doc, docx, odt, rtf, log)"
}
