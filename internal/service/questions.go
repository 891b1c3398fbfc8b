package service

import (
	"fmt"
	"strings"

	"course-portal/internal/model"
)

const correctMarker = "*"

// ParseQuestions reads the exam editor format: blocks separated by a blank
// line, the first line of a block is the question and every following line
// an option. The correct option is prefixed with "*".
func ParseQuestions(text string) ([]model.Question, error) {
	var out []model.Question

	blocks := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	for n, block := range blocks {
		lines := nonBlankLines(block)
		if len(lines) == 0 {
			continue
		}

		question := model.Question{Text: lines[0], CorrectAnswer: -1}
		for _, line := range lines[1:] {
			if option, ok := strings.CutPrefix(line, correctMarker); ok {
				if question.CorrectAnswer >= 0 {
					return nil, fmt.Errorf("question %d has more than one correct option: %w", n+1, model.ErrInvalidInput)
				}
				question.CorrectAnswer = len(question.Options)
				line = strings.TrimSpace(option)
			}
			question.Options = append(question.Options, line)
		}

		if len(question.Options) < 2 {
			return nil, fmt.Errorf("question %d needs at least two options: %w", n+1, model.ErrInvalidInput)
		}
		if question.CorrectAnswer < 0 {
			return nil, fmt.Errorf("question %d has no correct option: %w", n+1, model.ErrInvalidInput)
		}
		out = append(out, question)
	}

	return out, nil
}

// FormatQuestions is the inverse of ParseQuestions.
func FormatQuestions(questions []model.Question) string {
	blocks := make([]string, 0, len(questions))
	for _, q := range questions {
		var b strings.Builder
		b.WriteString(q.Text)
		for i, option := range q.Options {
			b.WriteByte('\n')
			if i == q.CorrectAnswer {
				b.WriteString(correctMarker + " ")
			}
			b.WriteString(option)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func nonBlankLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
