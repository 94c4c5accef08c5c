package document

import (
	"fmt"

	"github.com/thywilljoshua/summarease/internal/domain"
	rpdf "rsc.io/pdf"
)

// Info describes a document without extracting its text.
type Info struct {
	PageCount int               `json:"page_count"`
	Metadata  map[string]string `json:"metadata"`
}

// ReadInfo reports the page count and the string entries of the document Info dictionary.
// It rewinds src first, so it may follow ExtractText on the same handle.
func ReadInfo(src Source) (info Info, err error) {
	size, err := sizeOf(src)
	if err != nil {
		return Info{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			info = Info{}
			err = domain.ExtractionError("document could not be parsed", fmt.Errorf("%v", r))
		}
	}()

	doc, err := rpdf.NewReader(src, size)
	if err != nil {
		return Info{}, domain.ExtractionError("document could not be parsed", err)
	}

	info = Info{PageCount: doc.NumPage(), Metadata: map[string]string{}}
	dict := doc.Trailer().Key("Info")
	if dict.Kind() != rpdf.Dict {
		return info, nil
	}
	for _, k := range dict.Keys() {
		v := dict.Key(k)
		if v.Kind() != rpdf.String {
			continue
		}
		if s := v.Text(); s != "" {
			info.Metadata[k] = s
		}
	}
	return info, nil
}
