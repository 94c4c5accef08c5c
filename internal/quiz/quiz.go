// Package quiz recovers multiple-choice quizzes from model replies and grades answers to them.
package quiz

// Question is one multiple-choice item as produced by the model.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Quiz is an ordered list of questions.
type Quiz []Question

// Public strips the answer keys so a quiz can be shown before it is submitted.
func (q Quiz) Public() []PublicQuestion {
	out := make([]PublicQuestion, len(q))
	for i, item := range q {
		out[i] = PublicQuestion{Index: i, Question: item.Question, Options: item.Options}
	}
	return out
}

// PublicQuestion is a Question without its correct answer and explanation.
type PublicQuestion struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}
