// Package assistant runs the user-facing actions against a session: loading a document,
// summarising it, answering questions and running quizzes.
//
// Every action either completes and updates the session or returns a domain error and
// leaves the session as it was.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/thywilljoshua/summarease/internal/ai"
	"github.com/thywilljoshua/summarease/internal/document"
	"github.com/thywilljoshua/summarease/internal/domain"
	"github.com/thywilljoshua/summarease/internal/prompt"
	"github.com/thywilljoshua/summarease/internal/quiz"
	"github.com/thywilljoshua/summarease/internal/session"
)

// Options tunes prompt size, quiz bounds and the model call timeout.
type Options struct {
	MaxTextLength    int
	DefaultQuestions int
	MinQuestions     int
	MaxQuestions     int
	Timeout          time.Duration
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		MaxTextLength:    prompt.DefaultMaxTextLength,
		DefaultQuestions: 5,
		MinQuestions:     3,
		MaxQuestions:     10,
		Timeout:          120 * time.Second,
	}
}

type Assistant struct {
	gen     ai.Generator
	builder prompt.Builder
	opts    Options
	logger  zerolog.Logger
	now     func() time.Time
}

func New(gen ai.Generator, opts Options, logger zerolog.Logger) *Assistant {
	return &Assistant{
		gen:     gen,
		builder: prompt.NewBuilder(opts.MaxTextLength),
		opts:    opts,
		logger:  logger.With().Str("component", "assistant").Logger(),
		now:     time.Now,
	}
}

// WithClock replaces the clock used for history timestamps.
func (a *Assistant) WithClock(now func() time.Time) *Assistant {
	a.now = now
	return a
}

// Options returns the effective options.
func (a *Assistant) Options() Options { return a.opts }

// LoadDocument extracts src into st. A session that already holds text keeps it; the
// document is never extracted twice.
func (a *Assistant) LoadDocument(st *session.State, name string, src document.Source) error {
	log := a.logger.With().Str("session_id", st.ID).Str("document", name).Logger()
	if st.HasDocument() {
		log.Debug().Msg("document text already cached, skipping extraction")
		return nil
	}

	start := time.Now()
	text, err := document.ExtractText(src)
	if err != nil {
		log.Warn().Err(err).Msg("extraction failed")
		return err
	}
	if text == "" {
		return domain.ExtractionError("document has no pages", nil)
	}

	info, err := document.ReadInfo(src)
	if err != nil {
		log.Warn().Err(err).Msg("could not read document info")
		info = document.Info{PageCount: strings.Count(text, "\n\n--- Page "), Metadata: map[string]string{}}
	}

	st.SetDocument(name, text, info)
	log.Info().
		Int("pages", info.PageCount).
		Int("text_chars", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("document loaded")
	return nil
}

func requireDocument(st *session.State) error {
	if !st.HasDocument() {
		return domain.ValidationError("no document loaded, upload a PDF first", nil)
	}
	return nil
}

// Summarize replaces the session summary with a new one in the given style.
func (a *Assistant) Summarize(ctx context.Context, st *session.State, style prompt.Style) (string, error) {
	if err := requireDocument(st); err != nil {
		return "", err
	}
	p, err := a.builder.Summary(st.Text(), style)
	if err != nil {
		return "", err
	}
	out, err := a.generate(ctx, st, "summary", p)
	if err != nil {
		return "", err
	}
	st.SetSummary(out, style)
	return out, nil
}

// Ask answers question and appends it to the history.
func (a *Assistant) Ask(ctx context.Context, st *session.State, question string) (session.QAEntry, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return session.QAEntry{}, domain.ValidationError("question must not be empty", nil)
	}
	if err := requireDocument(st); err != nil {
		return session.QAEntry{}, err
	}
	p, err := a.builder.Answer(st.Text(), question)
	if err != nil {
		return session.QAEntry{}, err
	}
	out, err := a.generate(ctx, st, "question", p)
	if err != nil {
		return session.QAEntry{}, err
	}
	entry := session.NewQAEntry(question, out, a.now())
	st.AppendQA(entry)
	return entry, nil
}

// GenerateQuiz asks for n questions; n == 0 selects the default count.
func (a *Assistant) GenerateQuiz(ctx context.Context, st *session.State, n int) (quiz.Quiz, error) {
	if n == 0 {
		n = a.opts.DefaultQuestions
	}
	if n < a.opts.MinQuestions || n > a.opts.MaxQuestions {
		return nil, domain.ValidationError(
			fmt.Sprintf("number of questions must be between %d and %d", a.opts.MinQuestions, a.opts.MaxQuestions), nil)
	}
	if err := requireDocument(st); err != nil {
		return nil, err
	}
	p, err := a.builder.Quiz(st.Text(), n)
	if err != nil {
		return nil, err
	}
	out, err := a.generate(ctx, st, "quiz", p)
	if err != nil {
		return nil, err
	}
	q, err := quiz.Parse(out)
	if err != nil {
		a.logger.Warn().Err(err).Str("session_id", st.ID).Int("reply_chars", len(out)).Msg("quiz reply could not be parsed")
		return nil, err
	}
	if len(q) != n {
		a.logger.Info().Str("session_id", st.ID).Int("requested", n).Int("received", len(q)).Msg("quiz size differs from request")
	}
	st.SetQuiz(q)
	return q, nil
}

// SubmitQuiz grades answers against the current quiz and records the result.
func (a *Assistant) SubmitQuiz(st *session.State, answers quiz.Answers) (quiz.Result, error) {
	if !st.HasQuiz() {
		return quiz.Result{}, domain.ValidationError("no quiz has been generated", nil)
	}
	res, err := quiz.Grade(st.Quiz(), answers)
	if err != nil {
		return quiz.Result{}, err
	}
	st.SetResult(res, answers)
	a.logger.Info().
		Str("session_id", st.ID).
		Int("score", res.Score).
		Int("total", res.Total).
		Msg("quiz graded")
	return res, nil
}

func (a *Assistant) generate(ctx context.Context, st *session.State, task, p string) (string, error) {
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	log := a.logger.With().Str("session_id", st.ID).Str("task", task).Logger()
	start := time.Now()
	out, err := a.gen.Generate(ctx, p)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("model call failed")
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", domain.ServiceError(fmt.Sprintf("model did not answer within %s", a.opts.Timeout), err)
		}
		return "", domain.ServiceError("model call failed", err)
	}
	if strings.TrimSpace(out) == "" {
		log.Warn().Dur("elapsed", elapsed).Msg("model returned an empty reply")
		return "", domain.ServiceError("model returned an empty reply", nil)
	}
	log.Info().Int("prompt_chars", len(p)).Int("reply_chars", len(out)).Dur("elapsed", elapsed).Msg("model call completed")
	return out, nil
}
