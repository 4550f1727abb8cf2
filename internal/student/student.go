package student

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Student is the single record the registration service manages.
type Student struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	DOB        Date   `json:"dob"`
	RollNumber string `json:"rollNumber"`
}

// Input carries the five business fields of a request body. A nil field was
// absent from the body; register passes it through as NULL.
type Input struct {
	FirstName  *string `json:"firstName" form:"firstName"`
	LastName   *string `json:"lastName" form:"lastName"`
	Email      *string `json:"email" form:"email"`
	DOB        *string `json:"dob" form:"dob"`
	RollNumber *string `json:"rollNumber" form:"rollNumber"`
}

// Missing lists the fields that are absent or empty, in request order.
func (in Input) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name string
		val  *string
	}{
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"email", in.Email},
		{"dob", in.DOB},
		{"rollNumber", in.RollNumber},
	} {
		if f.val == nil || *f.val == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Date is a calendar day in YYYY-MM-DD form. It scans both DATE columns
// (delivered as time.Time) and TEXT columns.
type Date string

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = Date(v.UTC().Format(DateLayout))
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	case nil:
		*d = ""
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

func (d *Date) scanText(s string) error {
	norm, err := NormalizeDOB(s)
	if err != nil {
		return err
	}
	*d = Date(norm)
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return string(d), nil
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string { return string(d) }

// Ptr returns a pointer to s, for building Inputs.
func Ptr(s string) *string { return &s }
