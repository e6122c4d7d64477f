package scrape

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Batch-level failures. They abort a run before any task is dispatched.
var (
	ErrInvalidDocument  = errors.New("invalid source document")
	ErrNoLinks          = errors.New("no processable links found")
	ErrDocumentTooLarge = errors.New("source document too large")
)

// ErrorKind classifies a failed task.
type ErrorKind string

// Task error kinds.
const (
	ErrorKindTimeout    ErrorKind = "timeout"
	ErrorKindConnection ErrorKind = "connection"
	ErrorKindTLS        ErrorKind = "tls"
	ErrorKindHTTPStatus ErrorKind = "http_status"
	ErrorKindRequest    ErrorKind = "request"
	ErrorKindCanceled   ErrorKind = "canceled"
	ErrorKindExtraction ErrorKind = "extraction"
	ErrorKindInternal   ErrorKind = "internal"
)

// FetchError is a classified fetch failure.
type FetchError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	// Budget is the timeout that expired, for timeout failures.
	Budget time.Duration
	// Connect marks timeouts hit while establishing the connection.
	Connect bool
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ErrorKindHTTPStatus:
		if text := http.StatusText(e.StatusCode); text != "" {
			return fmt.Sprintf("http %d %s", e.StatusCode, text)
		}
		return fmt.Sprintf("http %d", e.StatusCode)
	case ErrorKindTimeout:
		phase := "timeout"
		if e.Connect {
			phase = "connect timeout"
		}
		if e.Budget > 0 {
			return fmt.Sprintf("%s after %s", phase, e.Budget)
		}
		return phase
	case ErrorKindTLS:
		return fmt.Sprintf("tls error: %v", e.Err)
	case ErrorKindConnection:
		return fmt.Sprintf("connection error: %v", e.Err)
	case ErrorKindCanceled:
		return fmt.Sprintf("canceled before fetch: %v", e.Err)
	default:
		return fmt.Sprintf("request error: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports that a page was fetched but held no readable content.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "content extraction failed: " + e.Reason
}

// FailureFromError maps a task error onto a failure result for url.
func FailureFromError(url string, err error) Result {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return Failed(url, fetchErr.Kind, fetchErr.Error())
	}
	var extractErr *ExtractionError
	if errors.As(err, &extractErr) {
		return Failed(url, ErrorKindExtraction, extractErr.Error())
	}
	return Failed(url, ErrorKindInternal, "internal error: "+err.Error())
}
