package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/summarease/internal/ai"
	"github.com/thywilljoshua/summarease/internal/assistant"
	"github.com/thywilljoshua/summarease/internal/document/pdftest"
	"github.com/thywilljoshua/summarease/internal/session"
)

const quizReply = "```json\n" +
	`[{"question":"2+2?","options":["A) 3","B) 4","C) 5","D) 6"],"correct_answer":"B","explanation":"basic arithmetic"},` +
	`{"question":"3+3?","options":["A) 6","B) 7","C) 8","D) 9"],"correct_answer":"A","explanation":"sum"},` +
	`{"question":"1+1?","options":["A) 1","B) 2","C) 3","D) 4"],"correct_answer":"B","explanation":"one plus one"}]` +
	"\n```"

func fakeModel() ai.Generator {
	return ai.GeneratorFunc(func(_ context.Context, p string) (string, error) {
		switch {
		case strings.Contains(p, "multiple-choice"):
			return quizReply, nil
		case strings.Contains(p, "answer this question"):
			return "It is about arithmetic.", nil
		default:
			return "A short summary.", nil
		}
	})
}

func newTestShell(t *testing.T, input string) (*shell, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	a := assistant.New(fakeModel(), assistant.DefaultOptions(), zerolog.Nop())
	st := session.New("cli", time.Now())
	raw := pdftest.Build(nil, "Two plus two is four.")
	require.NoError(t, a.LoadDocument(st, "arith.pdf", bytes.NewReader(raw)))

	var out bytes.Buffer
	sh := newShell(a, st, strings.NewReader(input), &out)
	sh.spin = func(_ string, fn func() error) error { return fn() }
	sh.formatter.Now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	return sh, &out
}

func TestPickOption(t *testing.T) {
	opts := []string{"A) 3", "B) 4", "C) 5", "D) 6"}
	cases := map[string]string{
		"b":    "B) 4",
		" C ":  "C) 5",
		"4":    "D) 6",
		"a) 3": "A) 3",
	}
	for in, want := range cases {
		got, ok := pickOption(opts, in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "E", "0", "5", "maybe"} {
		_, ok := pickOption(opts, in)
		assert.False(t, ok, in)
	}
}

func TestSplitCommand(t *testing.T) {
	name, rest := splitCommand("  ASK   what is it?  ")
	assert.Equal(t, "ask", name)
	assert.Equal(t, "what is it?", rest)

	name, rest = splitCommand("history")
	assert.Equal(t, "history", name)
	assert.Equal(t, "", rest)
}

func TestShellSession(t *testing.T) {
	dir := t.TempDir()
	input := strings.Join([]string{
		"summary brief",
		"ask what is this?",
		"history",
		"quiz 3",
		"take",
		"x",
		"b",
		"2",
		"B) 2",
		"export quiz " + dir,
		"export qa " + dir + " xlsx",
		"frobnicate",
		"quit",
		"summary",
	}, "\n") + "\n"

	sh, out := newTestShell(t, input)
	require.NoError(t, sh.run(context.Background()))
	text := out.String()

	assert.Contains(t, text, "A short summary.")
	assert.Contains(t, text, "It is about arithmetic.")
	assert.Contains(t, text, "Q: what is this?")
	assert.Contains(t, text, "quiz ready with 3 questions")
	assert.Contains(t, text, "choose one of the listed options")
	assert.Contains(t, text, "Final Score: 2/3 (66.7%)")
	assert.Contains(t, text, `unknown command "frobnicate"`)
	assert.Equal(t, 1, strings.Count(text, "A short summary."), "input after quit is not read")

	report, err := os.ReadFile(filepath.Join(dir, "quiz_results_20240309_140507.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "Your Answer: B ✗ Incorrect")
	_, err = os.Stat(filepath.Join(dir, "qa_history_20240309_140507.xlsx"))
	assert.NoError(t, err)

	res, ok := sh.state.Result()
	require.True(t, ok)
	assert.Equal(t, 2, res.Score)
}

func TestShellErrorsKeepSessionAlive(t *testing.T) {
	sh, out := newTestShell(t, "take\nexport summary\nquiz lots\nquiz 20\nresult\nask   \nhelp\n")
	require.NoError(t, sh.run(context.Background()))
	text := out.String()

	assert.Contains(t, text, "no quiz has been generated")
	assert.Contains(t, text, "no summary has been generated")
	assert.Contains(t, text, `"lots" is not a number of questions`)
	assert.Contains(t, text, "number of questions must be between 3 and 10")
	assert.Contains(t, text, "the quiz has not been submitted")
	assert.Contains(t, text, "question must not be empty")
	assert.Contains(t, text, "export <summary|qa|quiz>")
}
