package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/summarease/internal/assistant"
	"github.com/thywilljoshua/summarease/internal/domain"
	"github.com/thywilljoshua/summarease/internal/export"
	"github.com/thywilljoshua/summarease/internal/prompt"
	"github.com/thywilljoshua/summarease/internal/session"
)

func shellCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell <pdf>",
		Short: "Open an interactive session on a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			st, err := a.loadLocal(args[0])
			if err != nil {
				return err
			}
			sh := newShell(a.assistant, st, cmd.InOrStdin(), cmd.OutOrStdout())
			success(sh.out, "loaded %s (%d pages)", st.DocumentName, st.Info.PageCount)
			return sh.run(cmd.Context())
		},
	}
}

const shellHelp = `Commands:
  summary [comprehensive|brief|reference-linked]  generate a summary
  ask <question>                                   ask about the document
  history                                          list questions, newest first
  quiz [n]                                         generate a quiz of n questions
  take                                             answer the current quiz
  result                                           show the last quiz result
  export <summary|qa|quiz> [dir] [txt|xlsx|html]   write a report
  text                                             print the extracted text
  info                                             show document details
  help                                             show this help
  quit                                             leave`

// shell is a line-oriented front end over one session. Errors are printed and the session
// stays usable.
type shell struct {
	assistant *assistant.Assistant
	state     *session.State
	in        *bufio.Scanner
	out       io.Writer
	formatter export.Formatter
	spin      func(message string, fn func() error) error
}

func newShell(a *assistant.Assistant, st *session.State, in io.Reader, out io.Writer) *shell {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &shell{
		assistant: a,
		state:     st,
		in:        sc,
		out:       out,
		formatter: export.Formatter{Now: time.Now},
		spin:      busy,
	}
}

func (s *shell) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Type 'help' for commands.")
	for {
		fmt.Fprint(s.out, "summarease> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		quit, err := s.handle(ctx, s.in.Text())
		if err != nil {
			failure(s.out, "%s", domain.Message(err))
		}
		if quit {
			return nil
		}
	}
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	name, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(rest)
}

func (s *shell) handle(ctx context.Context, line string) (bool, error) {
	name, rest := splitCommand(line)
	switch name {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, shellHelp)
	case "summary":
		return false, s.summary(ctx, rest)
	case "ask":
		return false, s.ask(ctx, rest)
	case "history":
		s.history()
	case "quiz":
		return false, s.quiz(ctx, rest)
	case "take":
		return false, s.take()
	case "result":
		res, ok := s.state.Result()
		if !ok {
			return false, domain.ValidationError("the quiz has not been submitted", nil)
		}
		printResult(s.out, res)
	case "export":
		return false, s.export(rest)
	case "text":
		fmt.Fprintln(s.out, s.state.Text())
	case "info":
		s.info()
	default:
		return false, domain.ValidationError(fmt.Sprintf("unknown command %q, type 'help'", name), nil)
	}
	return false, nil
}

func (s *shell) summary(ctx context.Context, arg string) error {
	style, err := prompt.ParseStyle(arg)
	if err != nil {
		return err
	}
	var out string
	err = s.spin("Generating summary...", func() error {
		out, err = s.assistant.Summarize(ctx, s.state, style)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, out)
	return nil
}

func (s *shell) ask(ctx context.Context, question string) error {
	var entry session.QAEntry
	var err error
	err = s.spin("Thinking...", func() error {
		entry, err = s.assistant.Ask(ctx, s.state, question)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, entry.Answer)
	return nil
}

func (s *shell) history() {
	entries := s.state.HistoryForDisplay()
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "No questions asked yet.")
		return
	}
	for _, e := range entries {
		heading(s.out, "Q: "+e.Question)
		fmt.Fprintf(s.out, "A: %s\n", e.Answer)
		dimColor.Fprintf(s.out, "   asked at %s\n\n", e.Timestamp)
	}
}

func (s *shell) quiz(ctx context.Context, arg string) error {
	n := 0
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return domain.ValidationError(fmt.Sprintf("%q is not a number of questions", arg), err)
		}
		n = v
	}
	var err error
	err = s.spin("Generating quiz...", func() error {
		_, err = s.assistant.GenerateQuiz(ctx, s.state, n)
		return err
	})
	if err != nil {
		return err
	}
	success(s.out, "quiz ready with %d questions, type 'take' to answer it", len(s.state.Quiz()))
	return nil
}

func (s *shell) take() error {
	if !s.state.HasQuiz() {
		return domain.ValidationError("no quiz has been generated", nil)
	}
	answers, err := takeQuiz(s.in, s.out, s.state.Quiz())
	if err != nil {
		return err
	}
	res, err := s.assistant.SubmitQuiz(s.state, answers)
	if err != nil {
		return err
	}
	printResult(s.out, res)
	return nil
}

func (s *shell) export(arg string) error {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return domain.ValidationError("usage: export <summary|qa|quiz> [dir] [txt|xlsx|html]", nil)
	}
	kind, ok := export.ParseKind(fields[0])
	if !ok {
		return domain.ValidationError(fmt.Sprintf("unknown report %q", fields[0]), nil)
	}
	dir, format := ".", "txt"
	if len(fields) > 1 {
		dir = fields[1]
	}
	if len(fields) > 2 {
		format = fields[2]
	}

	body, err := s.render(kind, format)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, export.Filename(kind, format, s.formatter.Now()))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return err
	}
	success(s.out, "wrote %s", path)
	return nil
}

func (s *shell) render(kind export.Kind, format string) ([]byte, error) {
	st := s.state
	switch {
	case kind == export.KindSummary && st.Summary() == "":
		return nil, domain.ValidationError("no summary has been generated", nil)
	case kind == export.KindSummary && format == "txt":
		return []byte(s.formatter.SummaryReport(st.Summary())), nil
	case kind == export.KindSummary && format == "html":
		page, err := s.formatter.SummaryHTML(st.DocumentName, st.Summary())
		return []byte(page), err
	case kind == export.KindQA && format == "txt":
		return []byte(s.formatter.QAReport(st.History())), nil
	case kind == export.KindQA && format == "xlsx":
		return export.Workbook(st.History(), nil)
	case kind == export.KindQuiz:
		res, ok := st.Result()
		if !ok {
			return nil, domain.ValidationError("the quiz has not been submitted", nil)
		}
		switch format {
		case "txt":
			return []byte(s.formatter.QuizReport(res)), nil
		case "xlsx":
			return export.Workbook(st.History(), &res)
		}
	}
	return nil, domain.ValidationError(fmt.Sprintf("format %q is not available for the %s report", format, kind), nil)
}

func (s *shell) info() {
	st := s.state
	heading(s.out, st.DocumentName)
	fmt.Fprintf(s.out, "Pages: %d\nCharacters: %d\n", st.Info.PageCount, len([]rune(st.Text())))
	keys := make([]string, 0, len(st.Info.Metadata))
	for k := range st.Info.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(s.out, "%s: %s\n", k, st.Info.Metadata[k])
	}
}
