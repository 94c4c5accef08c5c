// Package export renders session content as downloadable reports.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/thywilljoshua/summarease/internal/quiz"
	"github.com/thywilljoshua/summarease/internal/session"
)

var (
	reportRule = strings.Repeat("=", 60)
	itemRule   = strings.Repeat("-", 60)
)

// Kind names an exportable report.
type Kind string

const (
	KindSummary Kind = "summary"
	KindQA      Kind = "qa"
	KindQuiz    Kind = "quiz"
)

// ParseKind maps a report name to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindSummary, KindQA, KindQuiz:
		return Kind(s), true
	}
	return "", false
}

var filePrefix = map[Kind]string{
	KindSummary: "summary",
	KindQA:      "qa_history",
	KindQuiz:    "quiz_results",
}

// Filename returns e.g. "summary_20240309_140507.txt".
func Filename(kind Kind, ext string, t time.Time) string {
	prefix, ok := filePrefix[kind]
	if !ok {
		prefix = string(kind)
	}
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format("20060102_150405"), strings.TrimPrefix(ext, "."))
}

// Formatter renders the plain-text reports. Now stamps the "Generated" header.
type Formatter struct {
	Now func() time.Time
}

func (f Formatter) stamp() string {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	return now().Format(session.TimestampLayout)
}

// SummaryReport wraps summary between the report header and footer.
func (f Formatter) SummaryReport(summary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PDF Summary\nGenerated: %s\n%s\n\n", f.stamp(), reportRule)
	b.WriteString(summary)
	fmt.Fprintf(&b, "\n\n%s\nEnd of Summary\n", reportRule)
	return b.String()
}

// QAReport lists history oldest first.
func (f Formatter) QAReport(history []session.QAEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Q&A History\nGenerated: %s\n%s\n\n", f.stamp(), reportRule)
	for i, e := range history {
		fmt.Fprintf(&b, "Question %d:\n%s\n\nAnswer:\n%s\n\nAsked at: %s\n\n%s\n\n",
			i+1, e.Question, e.Answer, e.Timestamp, itemRule)
	}
	fmt.Fprintf(&b, "%s\nTotal Questions: %d\nEnd of Q&A History\n", reportRule, len(history))
	return b.String()
}

// QuizReport lists each graded question with the user's letter and the answer key.
func (f Formatter) QuizReport(res quiz.Result) string {
	score := fmt.Sprintf("%d/%d (%s%%)", res.Score, res.Total, res.PercentString())

	var b strings.Builder
	fmt.Fprintf(&b, "Quiz Results\nGenerated: %s\n%s\n\nScore: %s\n\n", f.stamp(), reportRule, score)
	for i, o := range res.Outcomes {
		mark := "✗ Incorrect"
		if o.Correct {
			mark = "✓ Correct"
		}
		fmt.Fprintf(&b, "Question %d:\n%s\n\nYour Answer: %s %s\nCorrect Answer: %s\n\nExplanation:\n%s\n\n%s\n\n",
			i+1, o.Question, o.Letter, mark, o.CorrectAnswer, o.Explanation, itemRule)
	}
	fmt.Fprintf(&b, "%s\nFinal Score: %s\nEnd of Quiz Results\n", reportRule, score)
	return b.String()
}
