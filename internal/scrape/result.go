package scrape

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status is the wire status of a result.
type Status string

// Result statuses.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Outcome is either Success or Failure.
type Outcome interface {
	status() Status
}

// Success carries the extracted text.
type Success struct {
	Text string
}

func (Success) status() Status { return StatusSuccess }

// Failure carries the classified error.
type Failure struct {
	Kind    ErrorKind
	Message string
}

func (Failure) status() Status { return StatusError }

// Result is the per-URL outcome. Build one with Succeeded or Failed.
type Result struct {
	SourceURL string
	outcome   Outcome
}

// Succeeded builds a success result.
func Succeeded(url, text string) Result {
	return Result{SourceURL: url, outcome: Success{Text: text}}
}

// Failed builds an error result.
func Failed(url string, kind ErrorKind, message string) Result {
	return Result{SourceURL: url, outcome: Failure{Kind: kind, Message: message}}
}

// Outcome returns the success or failure payload. It is nil for a zero Result.
func (r Result) Outcome() Outcome { return r.outcome }

// Status returns success or error. A zero Result reports error.
func (r Result) Status() Status {
	if r.outcome == nil {
		return StatusError
	}
	return r.outcome.status()
}

// OK reports whether the result is a success.
func (r Result) OK() bool { return r.Status() == StatusSuccess }

// Text returns the extracted text of a success.
func (r Result) Text() (string, bool) {
	s, ok := r.outcome.(Success)
	return s.Text, ok
}

// Failure returns the error payload of a failed result.
func (r Result) Failure() (Failure, bool) {
	f, ok := r.outcome.(Failure)
	return f, ok
}

type resultWire struct {
	SourceURL    string  `json:"source_url" yaml:"source_url"`
	Status       Status  `json:"status" yaml:"status"`
	ScrapedText  *string `json:"scraped_text" yaml:"scraped_text"`
	ErrorMessage *string `json:"error_message" yaml:"error_message"`
}

func (r Result) wire() resultWire {
	w := resultWire{SourceURL: r.SourceURL, Status: r.Status()}
	switch o := r.outcome.(type) {
	case Success:
		text := o.Text
		w.ScrapedText = &text
	case Failure:
		msg := o.Message
		w.ErrorMessage = &msg
	default:
		msg := "no result recorded"
		w.ErrorMessage = &msg
	}
	return w
}

// MarshalJSON emits exactly one of scraped_text and error_message as non-null.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// MarshalYAML mirrors the JSON shape.
func (r Result) MarshalYAML() (any, error) {
	return r.wire(), nil
}

// UnmarshalJSON accepts the wire shape and rejects mixed payloads.
func (r *Result) UnmarshalJSON(data []byte) error {
	var w resultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	switch w.Status {
	case StatusSuccess:
		if w.ScrapedText == nil || w.ErrorMessage != nil {
			return errors.New("decode result: success needs scraped_text only")
		}
		*r = Succeeded(w.SourceURL, *w.ScrapedText)
	case StatusError:
		if w.ErrorMessage == nil || w.ScrapedText != nil {
			return errors.New("decode result: error needs error_message only")
		}
		// the kind is not on the wire
		*r = Failed(w.SourceURL, "", *w.ErrorMessage)
	default:
		return fmt.Errorf("decode result: unknown status %q", w.Status)
	}
	return nil
}
