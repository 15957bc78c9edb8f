// Package validate holds the explicit checks run before any availability
// window or booking is built or updated. None of them touch persistence.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"booking-scheduler-backend/internal/model"
	"booking-scheduler-backend/internal/parse"
)

const (
	MaxVisitorName    = 100
	MaxNotes          = 500
	MaxLinkTitle      = 100
	MaxLinkDesc       = 500
	MaxHostName       = 100
	MinPasswordLength = 6
)

var v = validator.New()

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a ValidationError: malformed time, date, email or length.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Errorf returns a single-field validation error.
func Errorf(field, format string, args ...any) *Error {
	return &Error{Fields: []FieldError{{Field: field, Message: fmt.Sprintf(format, args...)}}}
}

type collector struct {
	fields []FieldError
}

func (c *collector) add(field, msg string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: msg})
}

func (c *collector) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &Error{Fields: c.fields}
}

// Interval is a parsed date plus [Start, End).
type Interval struct {
	Date  string
	Start model.Clock
	End   model.Clock
}

func (c *collector) interval(rawDate, rawStart, rawEnd string, today string) Interval {
	var iv Interval
	var err error
	iv.Date, err = parse.Date(rawDate)
	if err != nil {
		c.add("date", err.Error())
	} else if today != "" && iv.Date < today {
		c.add("date", "date must be today or in the future")
	}

	startOK, endOK := true, true
	if iv.Start, err = parse.Clock(rawStart); err != nil {
		c.add("start_time", "start time must be in HH:MM format")
		startOK = false
	}
	if iv.End, err = parse.Clock(rawEnd); err != nil {
		c.add("end_time", "end time must be in HH:MM format")
		endOK = false
	}
	if startOK && endOK && iv.Start >= iv.End {
		c.add("end_time", "end time must be after start time")
	}
	return iv
}

// Window validates an availability window write. today is the host's
// current calendar day (YYYY-MM-DD); an empty today skips the freshness check.
func Window(rawDate, rawStart, rawEnd, today string) (Interval, error) {
	var c collector
	iv := c.interval(rawDate, rawStart, rawEnd, today)
	return iv, c.err()
}

// BookingInput is the raw visitor submission.
type BookingInput struct {
	VisitorName  string
	VisitorEmail string
	Date         string
	StartTime    string
	EndTime      string
	Notes        string
}

// BookingRequest is a normalized, validated visitor submission.
type BookingRequest struct {
	Interval
	VisitorName  string
	VisitorEmail string
	Notes        string
}

// Booking validates and normalizes a visitor booking request: the name is
// trimmed, the email trimmed and lowercased, notes trimmed.
func Booking(in BookingInput, today string) (BookingRequest, error) {
	var c collector
	req := BookingRequest{
		VisitorName:  strings.TrimSpace(in.VisitorName),
		VisitorEmail: strings.ToLower(strings.TrimSpace(in.VisitorEmail)),
		Notes:        strings.TrimSpace(in.Notes),
	}

	if n := utf8.RuneCountInString(req.VisitorName); n == 0 || n > MaxVisitorName {
		c.add("visitor_name", fmt.Sprintf("visitor name is required and must be at most %d characters", MaxVisitorName))
	}
	if !Email(req.VisitorEmail) {
		c.add("visitor_email", "valid email is required")
	}
	if utf8.RuneCountInString(req.Notes) > MaxNotes {
		c.add("notes", fmt.Sprintf("notes cannot exceed %d characters", MaxNotes))
	}
	req.Interval = c.interval(in.Date, in.StartTime, in.EndTime, today)
	return req, c.err()
}

// Email reports whether s is a syntactically valid address.
func Email(s string) bool {
	return s != "" && v.Var(s, "required,email,max=254") == nil
}

// Link validates and normalizes booking link metadata, applying the
// default title when none is given.
func Link(title, description string) (string, string, error) {
	var c collector
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		title = model.DefaultLinkTitle
	}
	if utf8.RuneCountInString(title) > MaxLinkTitle {
		c.add("title", fmt.Sprintf("title cannot exceed %d characters", MaxLinkTitle))
	}
	if utf8.RuneCountInString(description) > MaxLinkDesc {
		c.add("description", fmt.Sprintf("description cannot exceed %d characters", MaxLinkDesc))
	}
	return title, description, c.err()
}

// Registration validates host sign-up input and returns the normalized
// name and email.
func Registration(name, email, password string) (string, string, error) {
	var c collector
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxHostName {
		c.add("name", fmt.Sprintf("name is required and must be at most %d characters", MaxHostName))
	}
	if !Email(email) {
		c.add("email", "valid email is required")
	}
	if len(password) < MinPasswordLength {
		c.add("password", fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}
	return name, email, c.err()
}
