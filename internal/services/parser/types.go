package parser

// Job status values reported by the parsing service
const (
	StatusPending        = "PENDING"
	StatusSuccess        = "SUCCESS"
	StatusPartialSuccess = "PARTIAL_SUCCESS"
	StatusError          = "ERROR"
	StatusCanceled       = "CANCELED"
)

// Job is the upload and status payload for a parse job
type Job struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Done reports whether the job reached a terminal status
func (j *Job) Done() bool {
	switch j.Status {
	case StatusSuccess, StatusPartialSuccess, StatusError, StatusCanceled:
		return true
	}
	return false
}

// Succeeded reports whether the job produced a result
func (j *Job) Succeeded() bool {
	return j.Status == StatusSuccess || j.Status == StatusPartialSuccess
}

// Page is one page of a JSON parse result
type Page struct {
	Page int    `json:"page"`
	Text string `json:"text"`
	MD   string `json:"md"`
}

// JSONResult is the body of the result/json endpoint
type JSONResult struct {
	Pages       []Page         `json:"pages"`
	JobMetadata map[string]any `json:"job_metadata,omitempty"`
}
