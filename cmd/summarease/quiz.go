package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/summarease/internal/domain"
	"github.com/thywilljoshua/summarease/internal/quiz"
)

func quizCmd(opts *rootOptions) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "quiz <pdf>",
		Short: "Generate a quiz from a PDF and take it in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			sess, err := a.loadLocal(args[0])
			if err != nil {
				return err
			}

			var q quiz.Quiz
			err = busy("Generating quiz...", func() error {
				q, err = a.assistant.GenerateQuiz(cmd.Context(), sess, n)
				return err
			})
			if err != nil {
				return err
			}

			in := bufio.NewScanner(cmd.InOrStdin())
			answers, err := takeQuiz(in, cmd.OutOrStdout(), q)
			if err != nil {
				return err
			}
			res, err := a.assistant.SubmitQuiz(sess, answers)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "questions", "n", 0, "number of questions (default from config, 5)")
	return cmd
}

// takeQuiz asks every question in turn until a valid option is chosen.
func takeQuiz(in *bufio.Scanner, out io.Writer, q quiz.Quiz) (quiz.Answers, error) {
	answers := quiz.Answers{}
	for i, item := range q {
		heading(out, fmt.Sprintf("\nQuestion %d: %s", i+1, item.Question))
		for _, opt := range item.Options {
			fmt.Fprintf(out, "  %s\n", opt)
		}
		for {
			fmt.Fprint(out, "Your answer: ")
			if !in.Scan() {
				if err := in.Err(); err != nil {
					return nil, err
				}
				return nil, domain.ValidationError(fmt.Sprintf("input ended before question %d was answered", i+1), nil)
			}
			if opt, ok := pickOption(item.Options, in.Text()); ok {
				answers[i] = opt
				break
			}
			failure(out, "choose one of the listed options by letter or number")
		}
	}
	return answers, nil
}

// pickOption resolves a typed answer to an option: a 1-based number, the option's leading
// letter, or the full option text.
func pickOption(options []string, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	for _, opt := range options {
		if strings.EqualFold(opt, input) {
			return opt, true
		}
	}
	if len([]rune(input)) == 1 {
		for _, opt := range options {
			if opt != "" && strings.EqualFold(string([]rune(opt)[0]), input) {
				return opt, true
			}
		}
	}
	return "", false
}

func printResult(out io.Writer, res quiz.Result) {
	fmt.Fprintln(out)
	for _, o := range res.Outcomes {
		if o.Correct {
			success(out, "Question %d: %s", o.Index+1, o.Selected)
		} else {
			failure(out, "Question %d: %s (correct answer: %s)", o.Index+1, o.Selected, o.CorrectAnswer)
		}
		if o.Explanation != "" {
			dimColor.Fprintf(out, "  %s\n", o.Explanation)
		}
	}
	heading(out, fmt.Sprintf("\nFinal Score: %d/%d (%s%%)", res.Score, res.Total, res.PercentString()))
}
