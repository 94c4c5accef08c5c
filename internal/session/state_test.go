package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thywilljoshua/summarease/internal/document"
	"github.com/thywilljoshua/summarease/internal/prompt"
	"github.com/thywilljoshua/summarease/internal/quiz"
)

var t0 = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func TestHistoryOrder(t *testing.T) {
	s := New("s1", t0)
	e1 := NewQAEntry("q1", "a1", t0)
	e2 := NewQAEntry("q2", "a2", t0.Add(time.Minute))
	e3 := NewQAEntry("q3", "a3", t0.Add(2*time.Minute))
	s.AppendQA(e1)
	s.AppendQA(e2)
	s.AppendQA(e3)

	assert.Equal(t, []QAEntry{e1, e2, e3}, s.History())
	assert.Equal(t, []QAEntry{e3, e2, e1}, s.HistoryForDisplay())
	assert.Equal(t, []QAEntry{e1, e2, e3}, s.History(), "display read must not reorder storage")
	assert.Equal(t, "2024-03-09 14:05:07", e1.Timestamp)
}

func TestHistoryCopiesAreIndependent(t *testing.T) {
	s := New("s1", t0)
	s.AppendQA(NewQAEntry("q1", "a1", t0))
	h := s.History()
	h[0].Answer = "changed"
	assert.Equal(t, "a1", s.History()[0].Answer)
}

func TestSetDocumentIsIdempotent(t *testing.T) {
	s := New("s1", t0)
	assert.False(t, s.HasDocument())
	info := document.Info{PageCount: 2, Metadata: map[string]string{"Title": "T"}}
	s.SetDocument("a.pdf", "text", info)
	first := *s
	s.SetDocument("a.pdf", "text", info)
	assert.Equal(t, first, *s)
	assert.True(t, s.HasDocument())
	assert.Equal(t, "text", s.Text())
}

func TestSetQuizClearsResult(t *testing.T) {
	s := New("s1", t0)
	q := quiz.Quiz{{Question: "2+2?", Options: []string{"A) 3", "B) 4"}, CorrectAnswer: "B"}}
	s.SetQuiz(q)
	res, err := quiz.Grade(q, quiz.Answers{0: "B) 4"})
	require.NoError(t, err)
	s.SetResult(res, quiz.Answers{0: "B) 4"})

	got, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, 1, got.Score)

	s.SetQuiz(q)
	_, ok = s.Result()
	assert.False(t, ok)
	assert.Nil(t, s.LastAnswers)
}

func TestSummary(t *testing.T) {
	s := New("s1", t0)
	s.SetSummary("short", prompt.StyleBrief)
	assert.Equal(t, "short", s.Summary())
	assert.Equal(t, prompt.StyleBrief, s.SummaryStyle)
}
