package quiz

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/thywilljoshua/summarease/internal/domain"
)

// Answers maps a question index to the full option string the user selected.
type Answers map[int]string

// Outcome is the graded answer to one question.
type Outcome struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	Selected      string `json:"selected"`
	Letter        string `json:"letter"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	Correct       bool   `json:"correct"`
}

// Result is a graded quiz. Tenths holds the percentage in tenths of a percent.
type Result struct {
	Score    int       `json:"score"`
	Total    int       `json:"total"`
	Tenths   int       `json:"percentage_tenths"`
	Outcomes []Outcome `json:"outcomes"`
}

// Percent returns the percentage rounded half-up to one decimal.
func (r Result) Percent() float64 {
	return float64(r.Tenths) / 10
}

// PercentString renders the percentage with exactly one decimal, e.g. "66.7".
func (r Result) PercentString() string {
	return fmt.Sprintf("%d.%d", r.Tenths/10, r.Tenths%10)
}

// Grade scores answers against q. Every question must have a non-empty answer.
func Grade(q Quiz, answers Answers) (Result, error) {
	var missing []int
	for i := range q {
		if strings.TrimSpace(answers[i]) == "" {
			missing = append(missing, i)
		}
	}
	var extra []int
	for i := range answers {
		if i < 0 || i >= len(q) {
			extra = append(extra, i)
		}
	}
	if len(missing) > 0 {
		return Result{}, domain.ValidationError(fmt.Sprintf("missing answers for questions %s", humanIndexes(missing)), nil)
	}
	if len(extra) > 0 {
		sort.Ints(extra)
		return Result{}, domain.ValidationError(fmt.Sprintf("answers given for unknown questions %v", extra), nil)
	}

	res := Result{Total: len(q), Outcomes: make([]Outcome, len(q))}
	for i, item := range q {
		selected := answers[i]
		letter := firstChar(selected)
		ok := letter == item.CorrectAnswer
		if ok {
			res.Score++
		}
		res.Outcomes[i] = Outcome{
			Index:         i,
			Question:      item.Question,
			Selected:      selected,
			Letter:        letter,
			CorrectAnswer: item.CorrectAnswer,
			Explanation:   item.Explanation,
			Correct:       ok,
		}
	}
	res.Tenths = percentTenths(res.Score, res.Total)
	return res, nil
}

// percentTenths computes round-half-up(1000*m/k) in integers.
func percentTenths(m, k int) int {
	if k <= 0 {
		return 0
	}
	return (2000*m + k) / (2 * k)
}

func firstChar(s string) string {
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

func humanIndexes(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprint(v + 1)
	}
	return strings.Join(parts, ", ")
}
