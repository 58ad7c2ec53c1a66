package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/diabcheck/internal/domain/survey"
)

// httpClient wraps http.Client with the probe's base URL.
type httpClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// questions fetches the catalog from GET /questions.
func (c *httpClient) questions(ctx context.Context) ([]survey.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/questions", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServer, err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServer, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET /questions returned %d", ErrServer, resp.StatusCode)
	}

	var form struct {
		Questions []survey.Question `json:"questions"`
	}
	if err := json.Unmarshal(body, &form); err != nil {
		return nil, fmt.Errorf("%w: decode questions: %w", ErrServer, err)
	}
	return form.Questions, nil
}

// predictResult is the outcome of one POST /predict.
type predictResult struct {
	status int
	ok     *predictResponse
	err    *errorResponse
}

// predict submits one session to POST /predict.
func (c *httpClient) predict(ctx context.Context, s Session) (predictResult, error) {
	data, err := json.Marshal(predictRequest{Answers: s})
	if err != nil {
		return predictResult{}, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(data))
	if err != nil {
		return predictResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return predictResult{}, fmt.Errorf("%w: %w", ErrServer, err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return predictResult{}, fmt.Errorf("%w: %w", ErrServer, err)
	}

	res := predictResult{status: resp.StatusCode}
	if resp.StatusCode == http.StatusOK {
		var ok predictResponse
		if err := json.Unmarshal(body, &ok); err != nil {
			return res, fmt.Errorf("%w: decode prediction: %w", ErrServer, err)
		}
		res.ok = &ok
		return res, nil
	}
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return res, fmt.Errorf("%w: status %d with undecodable body: %w", ErrServer, resp.StatusCode, err)
	}
	res.err = &e
	return res, nil
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
