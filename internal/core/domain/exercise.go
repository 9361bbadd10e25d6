package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogUsername is the username reported in exercise log responses. The log
// endpoint never resolves the owning user.
const LogUsername = "user-username"

// DisplayDateLayout renders dates as e.g. "Tue Jan 02 2024".
const DisplayDateLayout = "Mon Jan 02 2006"

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrMissingUserID    = errors.New("user_id is required")
	ErrInvalidDate      = errors.New("invalid date")
	// ErrRequestInProgress is returned while an earlier request with the same
	// idempotency key has not finished.
	ErrRequestInProgress = errors.New("request with this idempotency key is in progress")
)

// Exercise is a single logged activity tied to a user by identifier.
// UserID is not checked against the users collection on read.
type Exercise struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID      string             `json:"user_id" bson:"user_id"`
	Description string             `json:"description" bson:"description"`
	Duration    string             `json:"duration" bson:"duration"`
	Date        time.Time          `json:"date" bson:"date"`
}

// Validate checks the only stored invariant: the owning user id is present.
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return ErrMissingUserID
	}
	return nil
}

// FormatDate renders t in UTC using DisplayDateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DisplayDateLayout)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	DisplayDateLayout,
	"2006",
}

// ParseDate accepts the date shapes clients commonly send: RFC3339, a
// zone-less timestamp, a plain calendar date, the display layout, a bare
// year, or Unix milliseconds. Zone-less values are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}
