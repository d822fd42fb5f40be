package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsInstructor(t *testing.T) {
	tests := []struct {
		name string
		user User
		want bool
	}{
		{"teacher", User{Role: RoleTeacher}, true},
		{"mentor student", User{Role: RoleStudent, IsMentor: true}, true},
		{"student", User{Role: RoleStudent}, false},
		{"admin", User{Role: RoleAdmin}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.user.IsInstructor())
		})
	}
}

func TestUser_MissingInstructorFields(t *testing.T) {
	u := User{ProfessionalTitle: "Dr", Website: "https://x.io"}
	assert.Equal(t, []string{"organization", "linkedIn", "qualifications"}, u.MissingInstructorFields())

	full := User{
		ProfessionalTitle: "a", Organization: "b", Website: "c", LinkedIn: "d", Qualifications: "e",
	}
	assert.Empty(t, full.MissingInstructorFields())
}

func TestUser_BackfillKeepsExistingValues(t *testing.T) {
	u := User{Organization: "Existing Org", LinkedIn: "https://linkedin.com/in/me"}
	defaults := InstructorProfile{
		ProfessionalTitle: "Instructor",
		Organization:      "Default Org",
		Website:           "https://lms.example.com",
		LinkedIn:          "https://linkedin.com",
		Qualifications:    "Certified",
	}

	got := u.Backfill(defaults)

	assert.Equal(t, map[string]interface{}{
		"professionalTitle": "Instructor",
		"website":           "https://lms.example.com",
		"qualifications":    "Certified",
	}, got)
}

func TestInstructorProfile_Missing(t *testing.T) {
	assert.Empty(t, InstructorProfile{
		ProfessionalTitle: "Dr", Organization: "Uni", Website: "w", LinkedIn: "l", Qualifications: "q",
	}.Missing())
	assert.Equal(t, []string{"professionalTitle", "website"},
		InstructorProfile{Organization: "Uni", LinkedIn: "l", Qualifications: "q"}.Missing())
}
