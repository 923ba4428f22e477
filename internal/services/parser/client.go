// Package parser provides a client for the LlamaParse document parsing API.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/interfaces"
	"github.com/ternarybob/tenantlaw/internal/models"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for LlamaCloud.
	DefaultBaseURL = "https://api.cloud.llamaindex.ai"

	// DefaultTimeout is the HTTP timeout for a single request.
	DefaultTimeout = 60 * time.Second

	// DefaultPollInterval is the gap between job status checks.
	DefaultPollInterval = time.Second

	// DefaultJobTimeout bounds the wait for one parse job.
	// It stays under the HTTP server's default write timeout.
	DefaultJobTimeout = 150 * time.Second
)

// ErrMissingAPIKey is returned when no LlamaCloud key is configured
var ErrMissingAPIKey = errors.New("LLAMA CLOUD API key not found. Please set LLAMA_CLOUD_API_KEY environment variable")

// Client is a LlamaParse API client.
type Client struct {
	baseURL    string
	apiKey     string
	resultType string
	language   string
	jobTimeout time.Duration
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

var _ interfaces.DocumentParser = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPollInterval sets the minimum gap between job status checks.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithJobTimeout bounds how long Parse waits for a job to finish.
func WithJobTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.jobTimeout = d
		}
	}
}

// WithResultType selects "markdown" or "text" page content.
func WithResultType(resultType string) ClientOption {
	return func(c *Client) {
		if resultType != "" {
			c.resultType = resultType
		}
	}
}

// WithLanguage sets the OCR language hint.
func WithLanguage(language string) ClientOption {
	return func(c *Client) {
		if language != "" {
			c.language = language
		}
	}
}

// NewClient creates a new LlamaParse client. The API key is required.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		resultType: "markdown",
		language:   "en",
		jobTimeout: DefaultJobTimeout,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(DefaultPollInterval), 1),
		logger:  arbor.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// APIError represents an error from the LlamaParse API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llamaparse API error: %s (status %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// JobError reports a parse job that finished without a result.
type JobError struct {
	JobID   string
	Status  string
	Message string
}

func (e *JobError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("parse job %s finished with status %s", e.JobID, e.Status)
	}
	return fmt.Sprintf("parse job %s finished with status %s: %s", e.JobID, e.Status, e.Message)
}

// Parse uploads the file, waits for the job and returns one section per page.
// Polling is paced by the limiter; a failed request is returned, not repeated.
func (c *Client) Parse(ctx context.Context, filePath string) ([]models.ParsedSection, error) {
	ctx, cancel := context.WithTimeout(ctx, c.jobTimeout)
	defer cancel()

	startTime := time.Now()

	job, err := c.Upload(ctx, filePath)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("job_id", job.ID).
		Str("file", filepath.Base(filePath)).
		Msg("Parse job started")

	for !job.Done() {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for parse job %s: %w", job.ID, err)
		}
		job, err = c.JobStatus(ctx, job.ID)
		if err != nil {
			return nil, err
		}
	}

	if !job.Succeeded() {
		return nil, &JobError{JobID: job.ID, Status: job.Status, Message: job.ErrorMessage}
	}

	result, err := c.Result(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	sections := make([]models.ParsedSection, 0, len(result.Pages))
	for i, page := range result.Pages {
		content := page.MD
		if c.resultType == "text" || content == "" {
			content = page.Text
		}
		sections = append(sections, models.ParsedSection{
			Index:  i + 1,
			Text:   content,
			Source: filePath,
		})
	}

	c.logger.Info().
		Str("job_id", job.ID).
		Int("sections", len(sections)).
		Dur("duration", time.Since(startTime)).
		Msg("Parse job completed")

	return sections, nil
}

// Upload submits a file and returns the created job.
func (c *Client) Upload(ctx context.Context, filePath string) (*Job, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	_ = mw.WriteField("language", c.language)
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	var job Job
	if err := c.do(ctx, http.MethodPost, "/api/parsing/upload", &body, mw.FormDataContentType(), &job); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", filepath.Base(filePath), err)
	}
	if job.ID == "" {
		return nil, fmt.Errorf("upload of %s returned no job id", filepath.Base(filePath))
	}
	return &job, nil
}

// JobStatus fetches the current state of a job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodGet, "/api/parsing/job/"+jobID, nil, "", &job); err != nil {
		return nil, fmt.Errorf("failed to fetch status for job %s: %w", jobID, err)
	}
	if job.ID == "" {
		job.ID = jobID
	}
	return &job, nil
}

// Result fetches the per-page result of a finished job.
func (c *Client) Result(ctx context.Context, jobID string) (*JSONResult, error) {
	var result JSONResult
	if err := c.do(ctx, http.MethodGet, "/api/parsing/job/"+jobID+"/result/json", nil, "", &result); err != nil {
		return nil, fmt.Errorf("failed to fetch result for job %s: %w", jobID, err)
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", c.baseURL+path).
		Msg("LlamaParse API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
