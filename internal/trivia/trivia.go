// Package trivia provides the AI challenge questions.
package trivia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cashrun/internal/money"
)

// ErrGeneration wraps every failure to produce a question.
var ErrGeneration = errors.New("trivia: generation failed")

// Question is one multiple-choice challenge. Reward is in taka.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Reward        float64  `json:"reward"`
}

// Correct reports whether answer is the right option.
func (q Question) Correct(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer))
}

// RewardAmount converts the reward to money.
func (q Question) RewardAmount() money.Amount {
	return money.Amount(math.Round(q.Reward * 100))
}

// Validate checks that the question can be played.
func (q Question) Validate() error {
	switch {
	case strings.TrimSpace(q.Question) == "":
		return fmt.Errorf("%w: empty question", ErrGeneration)
	case len(q.Options) < 2:
		return fmt.Errorf("%w: need at least two options, got %d", ErrGeneration, len(q.Options))
	case q.Reward <= 0:
		return fmt.Errorf("%w: reward must be positive", ErrGeneration)
	}
	for _, o := range q.Options {
		if q.Correct(o) {
			return nil
		}
	}
	return fmt.Errorf("%w: correct answer %q is not an option", ErrGeneration, q.CorrectAnswer)
}

// Source produces questions.
type Source interface {
	Generate(ctx context.Context) (Question, error)
}

// Fallback is the question served when generation fails.
func Fallback() Question {
	return Question{
		Question:      "Which built-in React hook is used for side effects?",
		Options:       []string{"useState", "useEffect", "useContext", "useReducer"},
		CorrectAnswer: "useEffect",
		Reward:        10,
	}
}

type fallbackSource struct {
	src    Source
	logger *log.Logger
}

// WithFallback wraps src so that any failure yields Fallback. A nil src
// always serves the fallback.
func WithFallback(src Source, logger *log.Logger) Source {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &fallbackSource{src: src, logger: logger}
}

func (f *fallbackSource) Generate(ctx context.Context) (Question, error) {
	if f.src == nil {
		return Fallback(), nil
	}
	q, err := f.src.Generate(ctx)
	if err != nil {
		f.logger.Warn("trivia generation failed, serving fallback", "err", err)
		return Fallback(), nil
	}
	return q, nil
}
