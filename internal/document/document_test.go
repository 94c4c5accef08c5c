package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thywilljoshua/summarease/internal/document/pdftest"
	"github.com/thywilljoshua/summarease/internal/domain"
)

func TestJoinPages(t *testing.T) {
	got := JoinPages([]string{"alpha", "", "gamma"})
	want := "\n\n--- Page 1 ---\n\nalpha\n\n--- Page 2 ---\n\n\n\n--- Page 3 ---\n\ngamma"
	assert.Equal(t, want, got)
	assert.Equal(t, "", JoinPages(nil))
}

func TestExtractTextMarksEveryPage(t *testing.T) {
	raw := pdftest.Build(nil, "Hello page one", "", "Closing page three")

	text, err := ExtractText(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "\n\n--- Page 1 ---\n\n"))
	assert.Equal(t, 3, strings.Count(text, "--- Page "))
	p1 := strings.Index(text, "--- Page 1 ---")
	p2 := strings.Index(text, "--- Page 2 ---")
	p3 := strings.Index(text, "--- Page 3 ---")
	assert.True(t, p1 < p2 && p2 < p3)
	assert.Contains(t, text[p1:p2], "Hello page one")
	assert.Contains(t, text[p3:], "Closing page three")
	assert.Equal(t, "--- Page 2 ---\n\n\n\n", text[p2:p3])
}

func TestExtractTextRejectsCorruptInput(t *testing.T) {
	_, err := ExtractText(bytes.NewReader([]byte("this is not a pdf at all")))
	require.Error(t, err)
	assert.True(t, domain.Is(err, domain.ErrorTypeExtraction))

	_, err = ExtractText(bytes.NewReader(nil))
	assert.True(t, domain.Is(err, domain.ErrorTypeExtraction))
}

func TestReadInfoAfterExtraction(t *testing.T) {
	raw := pdftest.Build(map[string]string{"Title": "Field Guide", "Author": "R. Stone"}, "one", "two")
	src := bytes.NewReader(raw)

	_, err := ExtractText(src)
	require.NoError(t, err)

	info, err := ReadInfo(src)
	require.NoError(t, err)
	assert.Equal(t, 2, info.PageCount)
	assert.Equal(t, "Field Guide", info.Metadata["Title"])
	assert.Equal(t, "R. Stone", info.Metadata["Author"])

	again, err := ReadInfo(src)
	require.NoError(t, err)
	assert.Equal(t, info, again)
}

func TestReadInfoCorrupt(t *testing.T) {
	_, err := ReadInfo(bytes.NewReader([]byte("%PDF-1.4\ngarbage")))
	assert.True(t, domain.Is(err, domain.ErrorTypeExtraction))
}
