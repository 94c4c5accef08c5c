package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

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

var clock = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

// fakeModel answers by task, recognised from the prompt wording.
type fakeModel struct {
	mu   sync.Mutex
	fail bool
}

func (f *fakeModel) Generate(_ context.Context, p string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", io.ErrUnexpectedEOF
	}
	switch {
	case strings.Contains(p, "multiple-choice"):
		return quizReply, nil
	case strings.Contains(p, "answer this question"):
		return "It is about arithmetic.", nil
	default:
		return "## Summary\n- arithmetic facts", nil
	}
}

func (f *fakeModel) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeModel) {
	t.Helper()
	model := &fakeModel{}
	a := assistant.New(ai.Generator(model), assistant.DefaultOptions(), zerolog.Nop()).
		WithClock(func() time.Time { return clock })
	srv := New(session.NewMemoryStore(time.Hour), a, zerolog.Nop(), Config{RequestTimeout: 10 * time.Second}).
		WithClock(func() time.Time { return clock })
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, model
}

func upload(t *testing.T, ts *httptest.Server, name string, content []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/v1/sessions", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	return resp
}

func call(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, ts *httptest.Server) SessionDTO {
	t.Helper()
	raw := pdftest.Build(map[string]string{"Title": "Arithmetic"}, "Two plus two is four.", "Three plus three is six.")
	resp := upload(t, ts, "arith.pdf", raw)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[SessionDTO](t, resp)
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := call(t, http.MethodGet, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", decode[map[string]string](t, resp)["status"])
}

func TestFullFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	sess := createSession(t, ts)
	assert.Equal(t, "arith.pdf", sess.DocumentName)
	assert.Equal(t, 2, sess.PageCount)
	assert.Equal(t, "Arithmetic", sess.Metadata["Title"])
	base := ts.URL + "/api/v1/sessions/" + sess.ID

	resp := call(t, http.MethodPost, base+"/summary", map[string]string{"style": "brief"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[summaryResponse](t, resp)
	assert.Equal(t, "## Summary\n- arithmetic facts", sum.Summary)

	for _, q := range []string{"What is this?", "Anything else?"} {
		resp = call(t, http.MethodPost, base+"/questions", map[string]string{"question": q})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
	hist := decode[map[string][]session.QAEntry](t, call(t, http.MethodGet, base+"/questions", nil))["history"]
	require.Len(t, hist, 2)
	assert.Equal(t, "Anything else?", hist[0].Question)

	resp = call(t, http.MethodPost, base+"/quiz", map[string]int{"num_questions": 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.NotContains(t, string(raw), "correct_answer")
	assert.Contains(t, string(raw), "2+2?")

	resp = call(t, http.MethodPost, base+"/quiz/submit", map[string]any{
		"answers": map[string]string{"0": "B) 4", "1": "B) 7", "2": "B) 2"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[map[string]any](t, resp)
	assert.EqualValues(t, 2, res["score"])
	assert.EqualValues(t, 667, res["percentage_tenths"])

	resp = call(t, http.MethodGet, base+"/export/quiz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="quiz_results_20240309_140507.txt"`, resp.Header.Get("Content-Disposition"))
	report, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(report), "Score: 2/3 (66.7%)")

	resp = call(t, http.MethodGet, base+"/export/qa?format=xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	resp.Body.Close()

	resp = call(t, http.MethodGet, base+"/summary?format=html", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(page), "<h2>Summary</h2>")

	overview := decode[SessionDTO](t, call(t, http.MethodGet, base, nil))
	assert.True(t, overview.HasSummary)
	assert.Equal(t, 2, overview.Questions)
	assert.True(t, overview.QuizGraded)

	resp = call(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = call(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestErrorMapping(t *testing.T) {
	ts, model := newTestServer(t)

	resp := upload(t, ts, "notes.txt", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = upload(t, ts, "broken.pdf", []byte("definitely not a pdf"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "extraction", decode[errorResponse](t, resp).Kind)

	sess := createSession(t, ts)
	base := ts.URL + "/api/v1/sessions/" + sess.ID

	resp = call(t, http.MethodPost, base+"/quiz", map[string]int{"num_questions": 12})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, http.MethodPost, base+"/quiz/submit", map[string]any{"answers": map[string]string{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, http.MethodGet, base+"/export/summary", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, http.MethodGet, base+"/export/everything", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, http.MethodPost, base+"/summary", map[string]string{"style": "sonnet"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	model.setFail(true)
	resp = call(t, http.MethodPost, base+"/summary", map[string]string{"style": "brief"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "service", decode[errorResponse](t, resp).Kind)

	resp = call(t, http.MethodGet, ts.URL+"/api/v1/sessions/unknown/summary", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
