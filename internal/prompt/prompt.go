// Package prompt builds the instructions sent to the generative model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/thywilljoshua/summarease/internal/domain"
)

// DefaultMaxTextLength is the number of document characters embedded in a prompt.
const DefaultMaxTextLength = 30000

// Style selects a summary instruction.
type Style string

const (
	StyleComprehensive   Style = "comprehensive"
	StyleBrief           Style = "brief"
	StyleReferenceLinked Style = "reference-linked"
)

// Styles lists the supported summary styles in display order.
var Styles = []Style{StyleComprehensive, StyleBrief, StyleReferenceLinked}

// ParseStyle accepts a style name, case-insensitively. "reference" and "reference_linked"
// are accepted as aliases of reference-linked.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(StyleComprehensive):
		return StyleComprehensive, nil
	case string(StyleBrief):
		return StyleBrief, nil
	case string(StyleReferenceLinked), "reference", "reference_linked":
		return StyleReferenceLinked, nil
	}
	return "", domain.ValidationError(fmt.Sprintf("unknown summary style %q", s), nil)
}

// Builder renders task prompts around a truncated copy of the document text.
type Builder struct {
	MaxTextLength int
}

// NewBuilder returns a Builder; a non-positive limit selects DefaultMaxTextLength.
func NewBuilder(maxTextLength int) Builder {
	if maxTextLength <= 0 {
		maxTextLength = DefaultMaxTextLength
	}
	return Builder{MaxTextLength: maxTextLength}
}

func (b Builder) limit() int {
	if b.MaxTextLength <= 0 {
		return DefaultMaxTextLength
	}
	return b.MaxTextLength
}

// Summary builds the summary instruction for style.
func (b Builder) Summary(text string, style Style) (string, error) {
	var head string
	switch style {
	case StyleComprehensive:
		head = "Provide a comprehensive summary of the following document. \n" +
			"Include key points, main arguments, and important details. \n" +
			"Format the summary with clear sections and bullet points where appropriate."
	case StyleBrief:
		head = "Provide a brief, concise summary of the following document in 3-5 sentences.\n" +
			"Focus on the most important points only."
	case StyleReferenceLinked:
		head = "Provide a detailed summary of the following document with references to specific pages.\n" +
			"For each key point, indicate which page(s) it comes from using the format [Page X]."
	default:
		return "", domain.ValidationError(fmt.Sprintf("unknown summary style %q", style), nil)
	}
	return b.withDocument(head, text), nil
}

// Answer builds the question-answering instruction. The question is embedded verbatim.
func (b Builder) Answer(text, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", domain.ValidationError("question must not be empty", nil)
	}
	head := "Based on the following document, answer this question: " + question + "\n\n" +
		"Provide a clear, detailed answer and reference specific parts of the document if possible."
	return b.withDocument(head, text), nil
}

const quizShape = `Format your response as JSON with this structure:
[
  {
    "question": "Question text",
    "options": ["A) Option 1", "B) Option 2", "C) Option 3", "D) Option 4"],
    "correct_answer": "A",
    "explanation": "Explanation text"
  }
]`

// Quiz builds the quiz instruction for n four-option questions.
func (b Builder) Quiz(text string, n int) (string, error) {
	if n <= 0 {
		return "", domain.ValidationError("number of questions must be positive", nil)
	}
	head := fmt.Sprintf("Based on the following document, create %d multiple-choice questions to test understanding.\n\n", n) +
		"For each question, provide:\n" +
		"1. The question\n" +
		"2. Four options (A, B, C, D)\n" +
		"3. The correct answer\n" +
		"4. A brief explanation\n\n" +
		quizShape
	return b.withDocument(head, text), nil
}

func (b Builder) withDocument(head, text string) string {
	return head + "\n\nDocument:\n" + Truncate(text, b.limit()) + "\n"
}

// Truncate returns the first n characters of s. It never reports that text was dropped.
func Truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
