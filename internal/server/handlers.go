package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thywilljoshua/summarease/internal/domain"
	"github.com/thywilljoshua/summarease/internal/export"
	"github.com/thywilljoshua/summarease/internal/prompt"
	"github.com/thywilljoshua/summarease/internal/quiz"
	"github.com/thywilljoshua/summarease/internal/session"
)

// SessionDTO summarises a session.
type SessionDTO struct {
	ID           string            `json:"session_id"`
	CreatedAt    time.Time         `json:"created_at"`
	DocumentName string            `json:"name"`
	PageCount    int               `json:"page_count"`
	Metadata     map[string]string `json:"metadata"`
	TextLength   int               `json:"text_length"`
	HasSummary   bool              `json:"has_summary"`
	Questions    int               `json:"questions_asked"`
	HasQuiz      bool              `json:"has_quiz"`
	QuizGraded   bool              `json:"quiz_graded"`
}

func toSessionDTO(st *session.State) SessionDTO {
	_, graded := st.Result()
	return SessionDTO{
		ID:           st.ID,
		CreatedAt:    st.CreatedAt,
		DocumentName: st.DocumentName,
		PageCount:    st.Info.PageCount,
		Metadata:     st.Info.Metadata,
		TextLength:   len([]rune(st.Text())),
		HasSummary:   st.Summary() != "",
		Questions:    len(st.QAHistory),
		HasQuiz:      st.HasQuiz(),
		QuizGraded:   graded,
	}
}

type summaryRequest struct {
	Style string `json:"style"`
}

type summaryResponse struct {
	Summary string       `json:"summary"`
	Style   prompt.Style `json:"style"`
}

type questionRequest struct {
	Question string `json:"question"`
}

type quizRequest struct {
	NumQuestions int `json:"num_questions"`
}

type quizResponse struct {
	Questions []quiz.PublicQuestion `json:"questions"`
	Result    *quiz.Result          `json:"result,omitempty"`
}

type submitRequest struct {
	Answers quiz.Answers `json:"answers"`
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, domain.ValidationError(fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxUploadBytes), nil))
			return
		}
		s.writeError(w, r, domain.ValidationError("expected a multipart upload", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, domain.ValidationError("missing form file \"file\"", err))
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		s.writeError(w, r, domain.ValidationError("only PDF documents are supported", nil))
		return
	}

	created, err := s.store.Create(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.store.Update(ctx, created.ID, func(st *session.State) error {
		return s.assistant.LoadDocument(st, name, file)
	})
	if err != nil {
		if derr := s.store.Delete(ctx, created.ID); derr != nil && !errors.Is(derr, session.ErrNotFound) {
			s.logger.Warn().Err(derr).Str("session_id", created.ID).Msg("could not discard failed session")
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionDTO(st))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Get(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(st))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), sessionID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Get(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name": st.DocumentName,
		"info": st.Info,
		"text": st.Text(),
	})
}

func (s *Server) createSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	style, err := prompt.ParseStyle(req.Style)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var out summaryResponse
	_, err = s.store.Update(r.Context(), sessionID(r), func(st *session.State) error {
		summary, err := s.assistant.Summarize(r.Context(), st, style)
		out = summaryResponse{Summary: summary, Style: style}
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Get(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if st.Summary() == "" {
		s.writeError(w, r, domain.ValidationError("no summary has been generated", nil))
		return
	}
	if r.URL.Query().Get("format") == "html" {
		page, err := s.formatter.SummaryHTML(st.DocumentName, st.Summary())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", export.ContentTypeHTML)
		_, _ = w.Write([]byte(page))
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: st.Summary(), Style: st.SummaryStyle})
}

func (s *Server) askQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var entry session.QAEntry
	_, err := s.store.Update(r.Context(), sessionID(r), func(st *session.State) error {
		var err error
		entry, err = s.assistant.Ask(r.Context(), st, req.Question)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Get(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": st.HistoryForDisplay()})
}

func (s *Server) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	var q quiz.Quiz
	_, err := s.store.Update(r.Context(), sessionID(r), func(st *session.State) error {
		var err error
		q, err = s.assistant.GenerateQuiz(r.Context(), st, req.NumQuestions)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, quizResponse{Questions: q.Public()})
}

func (s *Server) getQuiz(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Get(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !st.HasQuiz() {
		s.writeError(w, r, domain.ValidationError("no quiz has been generated", nil))
		return
	}
	resp := quizResponse{Questions: st.Quiz().Public()}
	if res, ok := st.Result(); ok {
		resp.Result = &res
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var res quiz.Result
	_, err := s.store.Update(r.Context(), sessionID(r), func(st *session.State) error {
		var err error
		res, err = s.assistant.SubmitQuiz(st, req.Answers)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) exportReport(w http.ResponseWriter, r *http.Request) {
	kind, ok := export.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		s.writeError(w, r, domain.ValidationError("unknown report, expected summary, qa or quiz", nil))
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "txt"
	}

	st, err := s.store.Get(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, contentType, err := s.render(st, kind, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name := export.Filename(kind, format, s.formatter.Now())
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(body)
}

func (s *Server) render(st *session.State, kind export.Kind, format string) ([]byte, string, error) {
	unsupported := domain.ValidationError(fmt.Sprintf("format %q is not available for the %s report", format, kind), nil)

	switch kind {
	case export.KindSummary:
		if st.Summary() == "" {
			return nil, "", domain.ValidationError("no summary has been generated", nil)
		}
		switch format {
		case "txt":
			return []byte(s.formatter.SummaryReport(st.Summary())), export.ContentTypeText, nil
		case "html":
			page, err := s.formatter.SummaryHTML(st.DocumentName, st.Summary())
			return []byte(page), export.ContentTypeHTML, err
		}
	case export.KindQA:
		switch format {
		case "txt":
			return []byte(s.formatter.QAReport(st.History())), export.ContentTypeText, nil
		case "xlsx":
			b, err := export.Workbook(st.History(), nil)
			return b, export.ContentTypeXLSX, err
		}
	case export.KindQuiz:
		res, ok := st.Result()
		if !ok {
			return nil, "", domain.ValidationError("the quiz has not been submitted", nil)
		}
		switch format {
		case "txt":
			return []byte(s.formatter.QuizReport(res)), export.ContentTypeText, nil
		case "xlsx":
			b, err := export.Workbook(st.History(), &res)
			return b, export.ContentTypeXLSX, err
		}
	}
	return nil, "", unsupported
}
