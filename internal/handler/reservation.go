package handler

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/flight-reservation-api/internal/model"
    "github.com/iliyamo/flight-reservation-api/internal/notify"
    "github.com/iliyamo/flight-reservation-api/internal/queue"
    "github.com/iliyamo/flight-reservation-api/internal/repository"
    queue_publisher "github.com/iliyamo/flight-reservation-api/internal/service"
    "github.com/iliyamo/flight-reservation-api/internal/validation"
)

// ReservationHandler implements the reservation workflow: create,
// list, get, update and delete, all scoped to the authenticated
// principal.  Critical DB operations run inside a transaction; the
// notification hook fires only after a successful commit, so a
// delivery failure can never roll back a reservation.  Methods may
// return 401 when the principal cannot be extracted from the context.
type ReservationHandler struct {
    Reservations *repository.ReservationRepo // reservations and the uniqueness pre-check
    Passengers   *repository.PassengerRepo   // passenger upsert and in-place updates
    Flights      *repository.FlightRepo      // flight upsert and in-place updates
    Notifier     *notify.Notifier            // post-commit notification hook
}

// NewReservationHandler constructs a ReservationHandler with the
// provided repositories.  All repositories must be non-nil; the
// notifier may be nil, which disables notifications.
func NewReservationHandler(res *repository.ReservationRepo, pas *repository.PassengerRepo, fl *repository.FlightRepo, n *notify.Notifier) *ReservationHandler {
    if res == nil || pas == nil || fl == nil {
        panic("nil repository passed to NewReservationHandler")
    }
    return &ReservationHandler{Reservations: res, Passengers: pas, Flights: fl, Notifier: n}
}

// ----- DTOs -----

type passengerPayload struct {
    ID          uint64 `json:"id"`
    FullName    string `json:"full_name"`
    Email       string `json:"email"`
    PhoneNumber string `json:"phone_number"`
}

type flightPayload struct {
    FlightNumber       string `json:"flight_number"`
    Airline            string `json:"airline"`
    OriginAirport      string `json:"origin_airport"`
    DestinationAirport string `json:"destination_airport"`
    DepartureDatetime  string `json:"departure_datetime"`
    ArrivalDatetime    string `json:"arrival_datetime"`
    SeatInformation    string `json:"seat_information"`
    TravelClass        string `json:"travel_class"`
}

// reservationPayload is shared by create and update.  On update the
// sub-objects and scalars are optional; absent parts leave the stored
// values untouched.  The timestamp fields exist only so that a client
// supplying them can be rejected: both are managed server-side.
type reservationPayload struct {
    PassengerInfo       *passengerPayload `json:"passenger_info"`
    FlightDetails       *flightPayload    `json:"flight_details"`
    TotalPrice          *float64          `json:"total_price"`
    ReservationStatus   *string           `json:"reservation_status"`
    CreationTimestamp   json.RawMessage   `json:"creation_timestamp"`
    LastUpdateTimestamp json.RawMessage   `json:"last_update_timestamp"`
}

func validatePassengerPayload(errs validation.FieldErrors, p *passengerPayload) {
    if p.ID == 0 {
        errs["passenger_info.id"] = "is required and must be a positive integer"
    }
    errs.FullName("passenger_info.full_name", p.FullName)
    errs.Email("passenger_info.email", p.Email)
    errs.Phone("passenger_info.phone_number", p.PhoneNumber)
}

// validateFlightPayload checks the flight rules and returns the parsed
// departure and arrival times.
func validateFlightPayload(errs validation.FieldErrors, f *flightPayload) (dep, arr time.Time) {
    errs.Length("flight_details.flight_number", f.FlightNumber, 3, 10)
    errs.Length("flight_details.airline", f.Airline, 3, 50)
    errs.Length("flight_details.origin_airport", f.OriginAirport, 3, 50)
    errs.Length("flight_details.destination_airport", f.DestinationAirport, 3, 50)
    dep = errs.Datetime("flight_details.departure_datetime", f.DepartureDatetime)
    arr = errs.Datetime("flight_details.arrival_datetime", f.ArrivalDatetime)
    errs.Seat("flight_details.seat_information", f.SeatInformation)
    errs.TravelClass("flight_details.travel_class", f.TravelClass)
    return dep, arr
}

// afterCommit runs the post-commit side effects for a state change
// worth announcing: the notification sink and the broker event.  Both
// are best-effort; failures are logged by the callees and never
// propagate to the API response.
func (h *ReservationHandler) afterCommit(ctx context.Context, ownerID uint64, action, oldStatus string, d *repository.ReservationDetail) {
    if !notify.ShouldNotify(action, oldStatus, d.ReservationStatus) {
        return
    }
    _ = h.Notifier.MaybeNotify(ctx, action, oldStatus, d)
    _ = queue_publisher.PublishReservationNotified(ctx, queue.ReservationNotifiedEvent{
        ReservationID:     d.ID,
        OwnerPrincipalID:  ownerID,
        Action:            action,
        PassengerEmail:    d.PassengerInfo.Email,
        PassengerName:     d.PassengerInfo.FullName,
        FlightNumber:      d.FlightDetails.FlightNumber,
        ReservationStatus: d.ReservationStatus,
        TotalPrice:        d.TotalPrice,
        OccurredAt:        time.Now().UTC().Format(time.RFC3339),
    })
}

// Create handles POST /v1/reservations.  It validates the payload,
// rejects a duplicate (passenger, flight number) pair, resolves the
// passenger and flight rows via find-or-create, and inserts the
// reservation with server-stamped timestamps.  The notification hook
// fires after commit with action "created".
func (h *ReservationHandler) Create(c echo.Context) error {
    principalID, err := getPrincipalID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body reservationPayload
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    errs := validation.FieldErrors{}
    errs.RejectClientTimestamp("creation_timestamp", len(body.CreationTimestamp) > 0)
    errs.RejectClientTimestamp("last_update_timestamp", len(body.LastUpdateTimestamp) > 0)
    if body.PassengerInfo == nil {
        errs["passenger_info"] = "is required"
    } else {
        validatePassengerPayload(errs, body.PassengerInfo)
    }
    var dep, arr time.Time
    if body.FlightDetails == nil {
        errs["flight_details"] = "is required"
    } else {
        dep, arr = validateFlightPayload(errs, body.FlightDetails)
    }
    if body.TotalPrice == nil {
        errs["total_price"] = "is required"
    } else {
        errs.Price("total_price", *body.TotalPrice)
    }
    if body.ReservationStatus == nil {
        errs["reservation_status"] = "is required"
    } else {
        errs.Status("reservation_status", *body.ReservationStatus)
    }
    if len(errs) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": errs})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    tx, err := h.Reservations.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Uniqueness is defined on (passenger natural key, flight number).
    exists, err := h.Reservations.ExistsForPassengerAndFlightTx(ctx, tx, body.PassengerInfo.ID, body.FlightDetails.FlightNumber)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check reservation uniqueness"})
    }
    if exists {
        return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already exists for this passenger and flight"})
    }

    passenger, err := h.Passengers.FindOrCreateTx(ctx, tx, &model.Passenger{
        ID:          body.PassengerInfo.ID,
        FullName:    body.PassengerInfo.FullName,
        Email:       body.PassengerInfo.Email,
        PhoneNumber: body.PassengerInfo.PhoneNumber,
    })
    if err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "passenger email already in use"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve passenger"})
    }
    flight, err := h.Flights.FindOrCreateTx(ctx, tx, &model.Flight{
        FlightNumber:       body.FlightDetails.FlightNumber,
        Airline:            body.FlightDetails.Airline,
        OriginAirport:      body.FlightDetails.OriginAirport,
        DestinationAirport: body.FlightDetails.DestinationAirport,
        DepartureDatetime:  dep,
        ArrivalDatetime:    arr,
        SeatInformation:    body.FlightDetails.SeatInformation,
        TravelClass:        body.FlightDetails.TravelClass,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve flight"})
    }

    rec := &model.Reservation{
        OwnerPrincipalID:  principalID,
        PassengerID:       passenger.ID,
        FlightID:          flight.ID,
        TotalPrice:        *body.TotalPrice,
        ReservationStatus: *body.ReservationStatus,
    }
    if err := h.Reservations.CreateTx(ctx, tx, rec); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already exists for this passenger and flight"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
    }
    detail, err := h.Reservations.GetDetailTx(ctx, tx, rec.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    h.afterCommit(ctx, principalID, notify.ActionCreated, "", detail)
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// List handles GET /v1/reservations.  It returns all reservations
// owned by the current principal, newest first.  Reservations created
// by other principals are simply absent from the result.
func (h *ReservationHandler) List(c echo.Context) error {
    principalID, err := getPrincipalID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    details, err := h.Reservations.ListByOwner(c.Request().Context(), principalID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// Get handles GET /v1/reservations/:id.  A reservation that does not
// exist and one owned by another principal both produce 404; ownership
// is never revealed through a distinct status.
func (h *ReservationHandler) Get(c echo.Context) error {
    principalID, err := getPrincipalID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || resID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    detail, err := h.Reservations.GetByIDForOwner(c.Request().Context(), resID, principalID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// Update handles PUT /v1/reservations/:id.  Provided sub-objects are
// applied field-by-field onto the already-linked passenger and flight
// rows; the reservation is never re-pointed at different rows.  The
// creation timestamp is immutable, the last-update timestamp refreshes
// on every mutation.  When the status changes, the notification hook
// fires after commit with action "updated".
func (h *ReservationHandler) Update(c echo.Context) error {
    principalID, err := getPrincipalID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || resID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var body reservationPayload
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    // Validate everything up front so a bad payload mutates nothing.
    errs := validation.FieldErrors{}
    errs.RejectClientTimestamp("creation_timestamp", len(body.CreationTimestamp) > 0)
    errs.RejectClientTimestamp("last_update_timestamp", len(body.LastUpdateTimestamp) > 0)
    if body.PassengerInfo != nil {
        validatePassengerPayload(errs, body.PassengerInfo)
        // The id of the linked passenger row is fixed; only its fields move.
        delete(errs, "passenger_info.id")
    }
    var dep, arr time.Time
    if body.FlightDetails != nil {
        dep, arr = validateFlightPayload(errs, body.FlightDetails)
    }
    if body.TotalPrice != nil {
        errs.Price("total_price", *body.TotalPrice)
    }
    if body.ReservationStatus != nil {
        errs.Status("reservation_status", *body.ReservationStatus)
    }
    if len(errs) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": errs})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    tx, err := h.Reservations.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    rec, err := h.Reservations.GetForUpdateTx(ctx, tx, resID, principalID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            // Not found and not owned are deliberately indistinguishable.
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
    }
    oldStatus := rec.ReservationStatus

    if body.PassengerInfo != nil {
        if _, err := h.Passengers.UpdateInPlaceTx(ctx, tx, rec.PassengerID,
            body.PassengerInfo.FullName, body.PassengerInfo.Email, body.PassengerInfo.PhoneNumber); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "passenger not found"})
            }
            if errors.Is(err, repository.ErrConflict) {
                return c.JSON(http.StatusConflict, echo.Map{"error": "passenger email already in use"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update passenger"})
        }
    }
    if body.FlightDetails != nil {
        if _, err := h.Flights.UpdateInPlaceTx(ctx, tx, rec.FlightID, &model.Flight{
            FlightNumber:       body.FlightDetails.FlightNumber,
            Airline:            body.FlightDetails.Airline,
            OriginAirport:      body.FlightDetails.OriginAirport,
            DestinationAirport: body.FlightDetails.DestinationAirport,
            DepartureDatetime:  dep,
            ArrivalDatetime:    arr,
            SeatInformation:    body.FlightDetails.SeatInformation,
            TravelClass:        body.FlightDetails.TravelClass,
        }); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
            }
            if errors.Is(err, repository.ErrConflict) {
                return c.JSON(http.StatusConflict, echo.Map{"error": "flight number already in use"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update flight"})
        }
    }

    price := rec.TotalPrice
    if body.TotalPrice != nil {
        price = *body.TotalPrice
    }
    status := rec.ReservationStatus
    if body.ReservationStatus != nil {
        status = *body.ReservationStatus
    }
    if err := h.Reservations.UpdateScalarsTx(ctx, tx, rec.ID, price, status); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting reservation state"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
    }

    detail, err := h.Reservations.GetDetailTx(ctx, tx, rec.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    h.afterCommit(ctx, principalID, notify.ActionUpdated, oldStatus, detail)
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// Delete handles DELETE /v1/reservations/:id.  Only the owning
// principal can delete a reservation; the linked passenger and flight
// rows are left intact.
func (h *ReservationHandler) Delete(c echo.Context) error {
    principalID, err := getPrincipalID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || resID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    if err := h.Reservations.DeleteByIDForOwner(c.Request().Context(), resID, principalID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete reservation"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Reservation deleted successfully."})
}
