package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/summarease/internal/document"
	"github.com/thywilljoshua/summarease/internal/export"
	"github.com/thywilljoshua/summarease/internal/prompt"
	"github.com/thywilljoshua/summarease/internal/session"
)

func infoCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <pdf>",
		Short: "Show page count and document metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newApp(cmd.Context(), opts, false); err != nil {
				return err
			}
			f, err := document.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := document.ReadInfo(f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				b, _ := json.MarshalIndent(info, "", "  ")
				fmt.Fprintln(out, string(b))
				return nil
			}
			heading(out, filepath.Base(args[0]))
			fmt.Fprintf(out, "Pages: %d\n", info.PageCount)
			keys := make([]string, 0, len(info.Metadata))
			for k := range info.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%s: %s\n", k, info.Metadata[k])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func summarizeCmd(opts *rootOptions) *cobra.Command {
	var style string
	var out string
	var html bool

	cmd := &cobra.Command{
		Use:   "summarize <pdf>",
		Short: "Summarise a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := prompt.ParseStyle(style)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			sess, err := a.loadLocal(args[0])
			if err != nil {
				return err
			}

			var summary string
			err = busy("Generating summary...", func() error {
				summary, err = a.assistant.Summarize(cmd.Context(), sess, st)
				return err
			})
			if err != nil {
				return err
			}

			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), summary)
				return nil
			}
			f := export.Formatter{Now: time.Now}
			body := f.SummaryReport(summary)
			ext := "txt"
			if html {
				if body, err = f.SummaryHTML(sess.DocumentName, summary); err != nil {
					return err
				}
				ext = "html"
			}
			path := filepath.Join(out, export.Filename(export.KindSummary, ext, time.Now()))
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "summary written to %s", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "comprehensive", "summary style: comprehensive|brief|reference-linked")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write a report into this directory instead of printing")
	cmd.Flags().BoolVar(&html, "html", false, "write the report as HTML (with --out)")
	return cmd
}

func askCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <pdf> <question>",
		Short: "Answer a question about a PDF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			sess, err := a.loadLocal(args[0])
			if err != nil {
				return err
			}
			var entry session.QAEntry
			err = busy("Thinking...", func() error {
				entry, err = a.assistant.Ask(cmd.Context(), sess, args[1])
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), entry.Answer)
			return nil
		},
	}
}
