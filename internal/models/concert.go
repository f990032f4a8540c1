package models

import "time"

// Attending is a user's answer for a concert.
type Attending string

const (
	AttendingNothing      Attending = "-"
	AttendingNotAttending Attending = "Not Attending"
	AttendingAttending    Attending = "Attending"
)

// AttendingChoices lists the valid answers in display order.
var AttendingChoices = []Attending{AttendingNothing, AttendingNotAttending, AttendingAttending}

func (a Attending) Valid() bool {
	for _, c := range AttendingChoices {
		if a == c {
			return true
		}
	}
	return false
}

// Concert represents a row in the concerts table.
type Concert struct {
	ID          int64     `json:"id"           yaml:"-"`
	ConcertName string    `json:"concert_name" yaml:"concert_name"`
	Duration    int       `json:"duration"     yaml:"duration"`
	City        string    `json:"city"         yaml:"city"`
	Date        time.Time `json:"date"         yaml:"date"`
}

// ConcertStatus pairs a concert with the current user's answer.
type ConcertStatus struct {
	Concert Concert
	Status  Attending
}
