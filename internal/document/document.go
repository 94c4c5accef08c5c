// Package document turns a paginated PDF into page-tagged text and reports its page count
// and metadata.
package document

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/thywilljoshua/summarease/internal/domain"
)

// Source is a seekable document handle. *os.File and *bytes.Reader both satisfy it.
type Source interface {
	io.ReaderAt
	io.Seeker
}

// PageMarker is the separator written before every page body.
const PageMarker = "\n\n--- Page %d ---\n\n"

// Open opens a PDF from disk. The caller closes the returned file.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.ExtractionError("cannot open document", err)
	}
	return f, nil
}

// ExtractText returns the text of every page, each preceded by its page marker.
// A page whose text cannot be read contributes an empty body.
func ExtractText(src Source) (text string, err error) {
	size, err := sizeOf(src)
	if err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.ExtractionError("document could not be parsed", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(src, size)
	if err != nil {
		return "", domain.ExtractionError("document could not be parsed", err)
	}

	numPages := reader.NumPage()
	pages := make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		pages[i-1] = pageText(reader, i)
	}
	return JoinPages(pages), nil
}

func pageText(reader *pdf.Reader, num int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	page := reader.Page(num)
	if page.V.IsNull() {
		return ""
	}
	t, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return t
}

// JoinPages concatenates page bodies in order, numbering them from 1.
func JoinPages(pages []string) string {
	var b strings.Builder
	for i, p := range pages {
		fmt.Fprintf(&b, PageMarker, i+1)
		b.WriteString(p)
	}
	return b.String()
}

// sizeOf measures src and rewinds it so it can be read again from the start.
func sizeOf(src Source) (int64, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, domain.ExtractionError("cannot read document", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, domain.ExtractionError("cannot read document", err)
	}
	if size == 0 {
		return 0, domain.ExtractionError("document is empty", nil)
	}
	return size, nil
}
