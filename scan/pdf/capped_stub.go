//go:build !pdfcpu

package pdf

import "errors"

// ErrPDFDisabled is returned when pdfcpu support is not enabled in the build.
var ErrPDFDisabled = errors.New("pdfcpu support disabled")

// ExtractAllTextCapped is a stub used for default builds without the
// "pdfcpu" tag; callers fall back to the in-process PDF extractor.
func ExtractAllTextCapped(path string, pageCap, perPageCap int) (string, error) {
	return "", ErrPDFDisabled
}
