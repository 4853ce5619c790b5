package notify

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/flight-reservation-api/internal/repository"
)

func TestShouldNotify(t *testing.T) {
    assert.True(t, ShouldNotify(ActionCreated, "", "pending"))
    assert.True(t, ShouldNotify(ActionCreated, "pending", "pending"))

    assert.True(t, ShouldNotify(ActionUpdated, "pending", "confirmed"))
    assert.False(t, ShouldNotify(ActionUpdated, "confirmed", "confirmed"))

    assert.False(t, ShouldNotify("deleted", "pending", "cancelled"))
}

func TestMessage_Format(t *testing.T) {
    got := Message("Kirill Rass", ActionCreated, "UA789", "pending")
    assert.Equal(t, "Dear Kirill Rass, your reservation has been created. Details: Flight UA789, Status: pending.", got)

    got = Message("Kirill Rass", ActionUpdated, "UA789", "confirmed")
    assert.Equal(t, "Dear Kirill Rass, your reservation has been updated. Details: Flight UA789, Status: confirmed.", got)
}

func sampleDetail() *repository.ReservationDetail {
    return &repository.ReservationDetail{
        ID: 1,
        PassengerInfo: repository.PassengerPart{
            FullName: "Kirill Rass",
            Email:    "kirill@example.com",
        },
        FlightDetails: repository.FlightPart{
            FlightNumber: "UA789",
        },
        ReservationStatus: "pending",
    }
}

type recordingSink struct {
    email   string
    message string
    err     error
    calls   int
}

func (s *recordingSink) Send(_ context.Context, email, message string) error {
    s.calls++
    s.email = email
    s.message = message
    return s.err
}

func TestMaybeNotify_SendsOnCreate(t *testing.T) {
    sink := &recordingSink{}
    n := New(sink)

    err := n.MaybeNotify(context.Background(), ActionCreated, "", sampleDetail())
    require.NoError(t, err)
    assert.Equal(t, 1, sink.calls)
    assert.Equal(t, "kirill@example.com", sink.email)
    assert.Equal(t, "Dear Kirill Rass, your reservation has been created. Details: Flight UA789, Status: pending.", sink.message)
}

func TestMaybeNotify_SilentWhenStatusUnchanged(t *testing.T) {
    sink := &recordingSink{}
    n := New(sink)

    err := n.MaybeNotify(context.Background(), ActionUpdated, "pending", sampleDetail())
    require.NoError(t, err)
    assert.Zero(t, sink.calls)
}

func TestMaybeNotify_ReturnsSinkError(t *testing.T) {
    sink := &recordingSink{err: errors.New("smtp down")}
    n := New(sink)

    err := n.MaybeNotify(context.Background(), ActionCreated, "", sampleDetail())
    assert.Error(t, err)
}

func TestMaybeNotify_NilNotifier(t *testing.T) {
    var n *Notifier
    assert.NoError(t, n.MaybeNotify(context.Background(), ActionCreated, "", sampleDetail()))
}

func TestHTTPSink_Send(t *testing.T) {
    var gotBody map[string]string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, http.MethodPost, r.Method)
        assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
        require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
        w.WriteHeader(http.StatusOK)
    }))
    defer srv.Close()

    sink := &HTTPSink{URL: srv.URL, Client: srv.Client()}
    err := sink.Send(context.Background(), "kirill@example.com", "hello")
    require.NoError(t, err)
    assert.Equal(t, "kirill@example.com", gotBody["email"])
    assert.Equal(t, "hello", gotBody["message"])
}

func TestHTTPSink_Non2xxIsNotificationError(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
        http.Error(w, "boom", http.StatusBadGateway)
    }))
    defer srv.Close()

    sink := &HTTPSink{URL: srv.URL, Client: srv.Client()}
    err := sink.Send(context.Background(), "kirill@example.com", "hello")
    require.Error(t, err)

    var nerr *NotificationError
    require.True(t, errors.As(err, &nerr))
    assert.Equal(t, "kirill@example.com", nerr.Email)
    assert.Contains(t, nerr.Reason, "502")
}

func TestHTTPSink_UnreachableEndpoint(t *testing.T) {
    sink := &HTTPSink{URL: "http://127.0.0.1:1/notify", Client: http.DefaultClient}
    err := sink.Send(context.Background(), "kirill@example.com", "hello")
    var nerr *NotificationError
    require.True(t, errors.As(err, &nerr))
}
