// Package session holds the per-user state of one document conversation and the stores
// that keep it between actions.
package session

import (
	"time"

	"github.com/thywilljoshua/summarease/internal/document"
	"github.com/thywilljoshua/summarease/internal/prompt"
	"github.com/thywilljoshua/summarease/internal/quiz"
)

// TimestampLayout formats history and report timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// QAEntry is one answered question.
type QAEntry struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

// NewQAEntry stamps an entry with at.
func NewQAEntry(question, answer string, at time.Time) QAEntry {
	return QAEntry{Question: question, Answer: answer, Timestamp: at.Format(TimestampLayout)}
}

// State is everything a session knows. Fields are exported for store encoding; callers
// should go through the methods.
type State struct {
	ID           string         `json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	DocumentName string         `json:"document_name,omitempty"`
	DocumentText string         `json:"document_text,omitempty"`
	Info         document.Info  `json:"info"`
	SummaryText  string         `json:"summary,omitempty"`
	SummaryStyle prompt.Style   `json:"summary_style,omitempty"`
	QAHistory    []QAEntry      `json:"qa_history,omitempty"`
	CurrentQuiz  quiz.Quiz      `json:"quiz"`
	LastResult   *quiz.Result   `json:"last_result,omitempty"`
	LastAnswers  map[int]string `json:"last_answers,omitempty"`
}

// New returns an empty state.
func New(id string, now time.Time) *State {
	return &State{ID: id, CreatedAt: now}
}

// SetDocument records the extracted text of the session's document. Setting the same text
// again leaves the state unchanged.
func (s *State) SetDocument(name, text string, info document.Info) {
	s.DocumentName = name
	s.DocumentText = text
	s.Info = info
}

func (s *State) HasDocument() bool { return s.DocumentText != "" }

func (s *State) Text() string { return s.DocumentText }

func (s *State) SetSummary(summary string, style prompt.Style) {
	s.SummaryText = summary
	s.SummaryStyle = style
}

func (s *State) Summary() string { return s.SummaryText }

// AppendQA adds an entry at the end of the chronological history.
func (s *State) AppendQA(e QAEntry) {
	s.QAHistory = append(s.QAHistory, e)
}

// History returns the entries oldest first.
func (s *State) History() []QAEntry {
	out := make([]QAEntry, len(s.QAHistory))
	copy(out, s.QAHistory)
	return out
}

// HistoryForDisplay returns the entries newest first.
func (s *State) HistoryForDisplay() []QAEntry {
	n := len(s.QAHistory)
	out := make([]QAEntry, n)
	for i, e := range s.QAHistory {
		out[n-1-i] = e
	}
	return out
}

// SetQuiz replaces the current quiz and forgets any earlier result.
func (s *State) SetQuiz(q quiz.Quiz) {
	s.CurrentQuiz = q
	s.LastResult = nil
	s.LastAnswers = nil
}

func (s *State) Quiz() quiz.Quiz { return s.CurrentQuiz }

func (s *State) HasQuiz() bool { return s.CurrentQuiz != nil }

// SetResult records a graded submission of the current quiz.
func (s *State) SetResult(r quiz.Result, answers quiz.Answers) {
	s.LastResult = &r
	s.LastAnswers = map[int]string(answers)
}

func (s *State) Result() (quiz.Result, bool) {
	if s.LastResult == nil {
		return quiz.Result{}, false
	}
	return *s.LastResult, true
}
