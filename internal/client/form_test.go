package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registration/internal/student"
)

func annForm() Form {
	return Form{
		FirstName:  "Ann",
		LastName:   "Lee",
		Email:      "ann@example.com",
		DOB:        "2001-01-15",
		RollNumber: "R100",
	}
}

func TestFormValidate(t *testing.T) {
	require.NoError(t, annForm().Validate())

	tests := []struct {
		name  string
		edit  func(*Form)
		field string
		msg   string
	}{
		{"first name", func(f *Form) { f.FirstName = "" }, "FirstName", "First Name is required"},
		{"last name", func(f *Form) { f.LastName = "" }, "LastName", "Last Name is required"},
		{"roll number", func(f *Form) { f.RollNumber = "" }, "RollNumber", "Roll Number is required"},
		{"dob", func(f *Form) { f.DOB = "" }, "DOB", "Date of birth is required"},
		{"email missing", func(f *Form) { f.Email = "" }, "Email", "Email is required"},
		{"email without at", func(f *Form) { f.Email = "ann.example.com" }, "Email", "Invalid email format"},
		{"email without dot", func(f *Form) { f.Email = "ann@example" }, "Email", "Invalid email format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := annForm()
			tt.edit(&f)
			err := f.Validate()
			var ferrs FieldErrors
			require.ErrorAs(t, err, &ferrs)
			assert.Equal(t, tt.msg, ferrs[tt.field])
			assert.Len(t, ferrs, 1)
		})
	}
}

func TestFormValidate_AllEmpty(t *testing.T) {
	var ferrs FieldErrors
	require.ErrorAs(t, Form{}.Validate(), &ferrs)
	assert.Len(t, ferrs, 5)
	assert.Contains(t, ferrs.Error(), "Roll Number is required")
}

func TestFormPayload(t *testing.T) {
	f := annForm()
	f.DOB = "15/01/2001"
	in, err := f.Payload()
	require.NoError(t, err)
	assert.Equal(t, "2001-01-15", *in.DOB)
	assert.Empty(t, in.Missing())

	f.DOB = "2001-01-15T18:30:00.000Z"
	in, err = f.Payload()
	require.NoError(t, err)
	assert.Equal(t, "2001-01-15", *in.DOB)

	f.DOB = "someday"
	_, err = f.Payload()
	var ferrs FieldErrors
	require.ErrorAs(t, err, &ferrs)
	assert.Contains(t, ferrs, "DOB")
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "15/01/2001", DisplayDate("2001-01-15"))
	assert.Equal(t, "garbage", DisplayDate("garbage"))
}

func TestEditForm(t *testing.T) {
	f := EditForm(student.Student{
		ID: 1, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com",
		DOB: "2001-01-15", RollNumber: "R100",
	})
	assert.Equal(t, annForm(), f)
}

func TestRoster(t *testing.T) {
	r := &Roster{Students: []student.Student{
		{ID: 1, FirstName: "Ann"},
		{ID: 2, FirstName: "Bo"},
		{ID: 3, FirstName: "Cy"},
	}}

	r.Remove(2)
	require.Len(t, r.Students, 2)
	_, ok := r.Find(2)
	assert.False(t, ok)

	in, err := annForm().Payload()
	require.NoError(t, err)
	require.NoError(t, r.Apply(3, in))
	got, ok := r.Find(3)
	require.True(t, ok)
	assert.Equal(t, "Lee", got.LastName)
	assert.Equal(t, student.Date("2001-01-15"), got.DOB)

	assert.Error(t, r.Apply(9, in))
}
