package export

import (
	"fmt"

	"github.com/thywilljoshua/summarease/internal/quiz"
	"github.com/thywilljoshua/summarease/internal/session"
	"github.com/xuri/excelize/v2"
)

const (
	SheetQA   = "Q&A History"
	SheetQuiz = "Quiz Results"
)

// Workbook builds an XLSX file with a Q&A sheet and, when res is non-nil, a quiz sheet.
func Workbook(history []session.QAEntry, res *quiz.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetQA); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	writeRow(f, SheetQA, 1, "#", "Question", "Answer", "Asked at")
	for i, e := range history {
		writeRow(f, SheetQA, i+2, i+1, e.Question, e.Answer, e.Timestamp)
	}
	_ = f.SetColWidth(SheetQA, "A", "A", 6)
	_ = f.SetColWidth(SheetQA, "B", "B", 48)
	_ = f.SetColWidth(SheetQA, "C", "C", 80)
	_ = f.SetColWidth(SheetQA, "D", "D", 20)

	if res != nil {
		if _, err := f.NewSheet(SheetQuiz); err != nil {
			return nil, fmt.Errorf("create sheet: %w", err)
		}
		writeRow(f, SheetQuiz, 1, "#", "Question", "Your Answer", "Correct Answer", "Result", "Explanation")
		for i, o := range res.Outcomes {
			verdict := "Incorrect"
			if o.Correct {
				verdict = "Correct"
			}
			writeRow(f, SheetQuiz, i+2, i+1, o.Question, o.Selected, o.CorrectAnswer, verdict, o.Explanation)
		}
		last := len(res.Outcomes) + 3
		writeRow(f, SheetQuiz, last, "Score", fmt.Sprintf("%d/%d", res.Score, res.Total), fmt.Sprintf("%s%%", res.PercentString()))
		_ = f.SetColWidth(SheetQuiz, "A", "A", 6)
		_ = f.SetColWidth(SheetQuiz, "B", "B", 48)
		_ = f.SetColWidth(SheetQuiz, "C", "D", 20)
		_ = f.SetColWidth(SheetQuiz, "E", "E", 12)
		_ = f.SetColWidth(SheetQuiz, "F", "F", 60)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
