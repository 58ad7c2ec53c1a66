package probe

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/okian/diabcheck/internal/domain/survey"
	"github.com/okian/diabcheck/pkg/logger"
)

const randomFloatDivisor = 1000000

// getRandomFloat returns a random float64 in [0, 1) using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomIndex returns a random index in [0, n).
func getRandomIndex(n int) int {
	i, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(i.Int64())
}

// generateSessions builds n random, fully valid sessions from questions.
func generateSessions(ctx context.Context, questions []survey.Question, n int) ([]Session, error) {
	sessions := make([]Session, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during session generation: %w", err)
		}
		s, err := generateSession(questions)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	logger.Get().Info(ctx, "generated sessions", logger.Int("count", len(sessions)))
	return sessions, nil
}

// generateSession picks a random option for every choice question and a
// value inside the hint range for every numeric one.
func generateSession(questions []survey.Question) (Session, error) {
	s := make(Session, len(questions))
	for _, q := range questions {
		switch q.Kind {
		case survey.KindChoice:
			if len(q.Options) == 0 {
				return nil, fmt.Errorf("question %s has no options", q.Key)
			}
			s[q.Key] = q.Options[getRandomIndex(len(q.Options))].Label
		case survey.KindNumeric:
			lo, hi := 0.0, 100.0
			if q.Hint != nil {
				lo, hi = q.Hint.Min, q.Hint.Max
			}
			s[q.Key] = math.Round((lo+getRandomFloat()*(hi-lo))*10) / 10
		default:
			return nil, fmt.Errorf("question %s has unsupported kind %s", q.Key, q.Kind)
		}
	}
	return s, nil
}

// withUnknownOption returns a copy of s whose first choice answer is a label
// no option set defines.
func withUnknownOption(s Session, questions []survey.Question) Session {
	out := clone(s)
	for _, q := range questions {
		if q.Kind == survey.KindChoice {
			out[q.Key] = "Prefer not to say"
			break
		}
	}
	return out
}

// withoutLast returns a copy of s missing the last question's answer.
func withoutLast(s Session, questions []survey.Question) Session {
	out := clone(s)
	if len(questions) > 0 {
		delete(out, questions[len(questions)-1].Key)
	}
	return out
}

func clone(s Session) Session {
	out := make(Session, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
