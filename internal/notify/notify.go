// Package notify decides when a reservation change warrants a
// notification and delivers it through an opaque sink.  The workflow
// calls MaybeNotify after its transaction has committed; a delivery
// failure is logged and reported but can never roll back the
// reservation it describes.
package notify

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "log"
    "net/http"
    "os"
    "time"

    "github.com/iliyamo/flight-reservation-api/internal/repository"
)

// Action labels passed to MaybeNotify by the reservation workflow.
const (
    ActionCreated = "created"
    ActionUpdated = "updated"
)

// Sink delivers a rendered message to a destination address.  The
// transport behind it is deliberately opaque to the workflow.
type Sink interface {
    Send(ctx context.Context, email, message string) error
}

// NotificationError reports a failed delivery.  It is non-fatal to the
// operation that triggered it.
type NotificationError struct {
    Email  string
    Reason string
}

func (e *NotificationError) Error() string {
    return fmt.Sprintf("failed to send notification to %s: %s", e.Email, e.Reason)
}

// ShouldNotify implements the trigger rule: creation always notifies,
// an update notifies only when the status actually changed.  Updates
// that touch price or sub-record fields alone stay silent.
func ShouldNotify(action, oldStatus, newStatus string) bool {
    switch action {
    case ActionCreated:
        return true
    case ActionUpdated:
        return oldStatus != newStatus
    }
    return false
}

// Message renders the notification body.  The format is fixed for
// compatibility with downstream consumers; do not reword it.
func Message(fullName, action, flightNumber, status string) string {
    return fmt.Sprintf("Dear %s, your reservation has been %s. Details: Flight %s, Status: %s.",
        fullName, action, flightNumber, status)
}

// Notifier is the post-commit hook owned by the reservation workflow.
type Notifier struct {
    sink Sink
}

func New(sink Sink) *Notifier { return &Notifier{sink: sink} }

// MaybeNotify fires the sink when the action and status diff call for
// it.  Errors are logged here so a caller that discards the return
// value still leaves a trace.
func (n *Notifier) MaybeNotify(ctx context.Context, action, oldStatus string, d *repository.ReservationDetail) error {
    if n == nil || n.sink == nil {
        return nil
    }
    if !ShouldNotify(action, oldStatus, d.ReservationStatus) {
        return nil
    }
    msg := Message(d.PassengerInfo.FullName, action, d.FlightDetails.FlightNumber, d.ReservationStatus)
    if err := n.sink.Send(ctx, d.PassengerInfo.Email, msg); err != nil {
        log.Printf("notify: delivery failed for reservation %d: %v", d.ID, err)
        return err
    }
    return nil
}

// HTTPSink posts {"email": ..., "message": ...} as JSON to a
// notification endpoint.  The client timeout bounds how long a
// request can stall on an unreachable endpoint.
type HTTPSink struct {
    URL    string
    Client *http.Client
}

// NewHTTPSink builds a sink from environment variables.  NOTIFY_URL
// defaults to the httpbin mock the service was originally tested
// against; NOTIFY_TIMEOUT accepts a Go duration and defaults to 5s.
func NewHTTPSink() *HTTPSink {
    url := os.Getenv("NOTIFY_URL")
    if url == "" {
        url = "https://httpbin.org/post"
    }
    timeout := 5 * time.Second
    if v := os.Getenv("NOTIFY_TIMEOUT"); v != "" {
        if d, err := time.ParseDuration(v); err == nil && d > 0 {
            timeout = d
        }
    }
    return &HTTPSink{URL: url, Client: &http.Client{Timeout: timeout}}
}

// Send delivers one message.  Any response outside 2xx is a
// NotificationError carrying the response body for diagnostics.
func (s *HTTPSink) Send(ctx context.Context, email, message string) error {
    payload, err := json.Marshal(map[string]string{
        "email":   email,
        "message": message,
    })
    if err != nil {
        return err
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
    if err != nil {
        return err
    }
    req.Header.Set("Content-Type", "application/json")
    resp, err := s.Client.Do(req)
    if err != nil {
        return &NotificationError{Email: email, Reason: err.Error()}
    }
    defer resp.Body.Close()
    if resp.StatusCode < 200 || resp.StatusCode > 299 {
        body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
        return &NotificationError{Email: email, Reason: fmt.Sprintf("status %d: %s", resp.StatusCode, string(body))}
    }
    return nil
}
