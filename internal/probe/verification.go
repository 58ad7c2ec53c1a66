package probe

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/diabcheck/internal/domain/survey"
	"github.com/okian/diabcheck/pkg/logger"
)

// rejection is a malformed session and the error code the server must return.
type rejection struct {
	name    string
	session Session
	code    string
}

// verifyRejections submits sessions that must fail and checks each is
// refused with the expected code instead of being silently encoded.
func verifyRejections(ctx context.Context, client *httpClient, questions []survey.Question, base Session, stats *Stats) error {
	cases := []rejection{
		{name: "unknown option", session: withUnknownOption(base, questions), code: "unknown_option"},
		{name: "missing answer", session: withoutLast(base, questions), code: "schema_mismatch"},
	}

	for _, c := range cases {
		res, err := client.predict(ctx, c.session)
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		if res.status != http.StatusBadRequest || res.err == nil || res.err.Code != c.code {
			got := "prediction"
			if res.err != nil {
				got = res.err.Code
			}
			return fmt.Errorf("%w: %s: got status %d code %q, want %d %q",
				ErrVerification, c.name, res.status, got, http.StatusBadRequest, c.code)
		}
		stats.RejectionsChecked++
		logger.Get().Info(ctx, "rejection verified", logger.String("case", c.name), logger.String("code", c.code))
	}
	return nil
}
