package client

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"registration/internal/student"
)

// emailPattern is the loose text@text.text check the form applies.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Form is what a user fills in before registering or editing a student.
type Form struct {
	FirstName  string `validate:"required"`
	LastName   string `validate:"required"`
	Email      string `validate:"required,simpleemail"`
	DOB        string `validate:"required"`
	RollNumber string `validate:"required"`
}

// fieldLabels maps struct fields to the labels shown to the user.
var fieldLabels = map[string]string{
	"FirstName":  "First Name",
	"LastName":   "Last Name",
	"Email":      "Email",
	"DOB":        "Date of birth",
	"RollNumber": "Roll Number",
}

// FieldErrors maps a form field to its user-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e[f])
	}
	return strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate applies the client-side checks. It returns FieldErrors when any
// field fails; nothing should be sent to the server in that case.
func (f Form) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = label + " is required"
		case "simpleemail":
			out[fe.Field()] = "Invalid email format"
		default:
			out[fe.Field()] = label + " is invalid"
		}
	}
	return out
}

// Payload validates the form and returns the request body with dob
// normalized to YYYY-MM-DD.
func (f Form) Payload() (student.Input, error) {
	if err := f.Validate(); err != nil {
		return student.Input{}, err
	}
	dob, err := FormatDOB(f.DOB)
	if err != nil {
		return student.Input{}, FieldErrors{"DOB": "Date of birth is invalid"}
	}
	return student.Input{
		FirstName:  student.Ptr(f.FirstName),
		LastName:   student.Ptr(f.LastName),
		Email:      student.Ptr(f.Email),
		DOB:        student.Ptr(dob),
		RollNumber: student.Ptr(f.RollNumber),
	}, nil
}

// FormatDOB turns a date picked by the user into YYYY-MM-DD. Day-first
// DD/MM/YYYY, as shown in the list view, is accepted as well.
func FormatDOB(raw string) (string, error) {
	if t, err := time.Parse("02/01/2006", strings.TrimSpace(raw)); err == nil {
		return t.Format(student.DateLayout), nil
	}
	return student.NormalizeDOB(raw)
}

// DisplayDate renders a stored date as DD/MM/YYYY for the list view.
func DisplayDate(d student.Date) string {
	t, err := time.Parse(student.DateLayout, string(d))
	if err != nil {
		return string(d)
	}
	return t.Format("02/01/2006")
}

// EditForm pre-populates a form from a listed student.
func EditForm(s student.Student) Form {
	dob, err := FormatDOB(string(s.DOB))
	if err != nil {
		dob = ""
	}
	return Form{
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		Email:      s.Email,
		DOB:        dob,
		RollNumber: s.RollNumber,
	}
}

// Roster is the list view's copy of the last server response. It is never
// authoritative; it is only patched after the server confirms a change.
type Roster struct {
	Students []student.Student
}

// Find returns the student with id.
func (r *Roster) Find(id int64) (student.Student, bool) {
	for _, s := range r.Students {
		if s.ID == id {
			return s, true
		}
	}
	return student.Student{}, false
}

// Remove drops id from the local view.
func (r *Roster) Remove(id int64) {
	kept := r.Students[:0]
	for _, s := range r.Students {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	r.Students = kept
}

// Apply replaces the local copy of id with the submitted payload.
func (r *Roster) Apply(id int64, in student.Input) error {
	for i, s := range r.Students {
		if s.ID != id {
			continue
		}
		r.Students[i] = student.Student{
			ID:         id,
			FirstName:  deref(in.FirstName),
			LastName:   deref(in.LastName),
			Email:      deref(in.Email),
			DOB:        student.Date(deref(in.DOB)),
			RollNumber: deref(in.RollNumber),
		}
		return nil
	}
	return fmt.Errorf("student %d not in view", id)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
