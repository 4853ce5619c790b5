package model

// Passenger represents a traveller on whose behalf reservations are
// made.  Passengers are deduplicated by their client-supplied id: the
// first create that references a given id inserts the row, later
// creates reuse it unchanged.  This struct corresponds to a row in the
// `passengers` table.
//
// Fields:
//  ID          – client-supplied natural key (primary key).
//  FullName    – full passenger name, at least two words.
//  Email       – unique email address used as the notification target.
//  PhoneNumber – phone number in E.164-ish form.
type Passenger struct {
    ID          uint64 // passengers.id
    FullName    string // passengers.full_name
    Email       string // passengers.email
    PhoneNumber string // passengers.phone_number
}
