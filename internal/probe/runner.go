package probe

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/okian/diabcheck/pkg/logger"
)

// Run executes a complete load run against a server and writes a summary to out.
func Run(ctx context.Context, cfg *Config, out io.Writer) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting survey probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("sessions", cfg.Sessions),
		logger.Int("workers", cfg.Workers),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	questions, err := client.questions(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch questions: %w", err)
	}

	sessions, err := generateSessions(ctx, questions, cfg.Sessions)
	if err != nil {
		return stats, fmt.Errorf("failed to generate sessions: %w", err)
	}
	stats.SessionsGenerated = len(sessions)

	submitSessions(ctx, cfg, client, sessions, stats)

	base, err := generateSession(questions)
	if err != nil {
		return stats, err
	}
	if err := verifyRejections(ctx, client, questions, base, stats); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	printSummary(out, stats)

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d valid sessions failed", ErrVerification, stats.Failed)
	}
	return stats, nil
}

// printSummary writes the final statistics.
func printSummary(out io.Writer, stats *Stats) {
	rate := 0.0
	if stats.Duration > 0 {
		rate = float64(stats.SessionsSubmitted) / stats.Duration.Seconds()
	}
	fmt.Fprintf(out, `Survey probe summary
  Sessions generated:  %d
  Sessions submitted:  %d
  Diabetic:            %d
  Not diabetic:        %d
  Failed:              %d
  Rejections checked:  %d
  Duration:            %v
  Throughput:          %.1f sessions/s
`, stats.SessionsGenerated, stats.SessionsSubmitted, stats.Diabetic, stats.NotDiabetic,
		stats.Failed, stats.RejectionsChecked, stats.Duration.Round(time.Millisecond), rate)
}
