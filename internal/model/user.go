package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles understood by the LMS.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User mirrors a document in the LMS "users" collection.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"` // bcrypt hash once stored
	Role     string             `bson:"role" json:"role"`  // admin, teacher, student

	// Instructor profile
	ProfessionalTitle string `bson:"professionalTitle,omitempty" json:"professionalTitle,omitempty"`
	Organization      string `bson:"organization,omitempty" json:"organization,omitempty"`
	Website           string `bson:"website,omitempty" json:"website,omitempty"`
	LinkedIn          string `bson:"linkedIn,omitempty" json:"linkedIn,omitempty"`
	Qualifications    string `bson:"qualifications,omitempty" json:"qualifications,omitempty"`

	// Legacy flag predating the teacher role
	IsMentor bool `bson:"isMentor" json:"isMentor"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) GetID() primitive.ObjectID   { return u.ID }
func (u *User) SetID(id primitive.ObjectID) { u.ID = id }

// IsInstructor reports whether the user is a teacher or a legacy mentor.
func (u *User) IsInstructor() bool {
	return u.Role == RoleTeacher || u.IsMentor
}

// InstructorProfile holds the optional instructor metadata of a user.
type InstructorProfile struct {
	ProfessionalTitle string
	Organization      string
	Website           string
	LinkedIn          string
	Qualifications    string
}

// Profile returns the user's current instructor metadata.
func (u *User) Profile() InstructorProfile {
	return InstructorProfile{
		ProfessionalTitle: u.ProfessionalTitle,
		Organization:      u.Organization,
		Website:           u.Website,
		LinkedIn:          u.LinkedIn,
		Qualifications:    u.Qualifications,
	}
}

// Missing returns the bson names of the empty fields of p.
func (p InstructorProfile) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"professionalTitle", p.ProfessionalTitle},
		{"organization", p.Organization},
		{"website", p.Website},
		{"linkedIn", p.LinkedIn},
		{"qualifications", p.Qualifications},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// MissingInstructorFields returns the bson names of the empty instructor fields.
func (u *User) MissingInstructorFields() []string {
	return u.Profile().Missing()
}

// Backfill returns the bson fields needed to fill the user's empty instructor
// fields from defaults. Existing values are never overwritten.
func (u *User) Backfill(defaults InstructorProfile) map[string]interface{} {
	fields := map[string]interface{}{}
	if u.ProfessionalTitle == "" {
		fields["professionalTitle"] = defaults.ProfessionalTitle
	}
	if u.Organization == "" {
		fields["organization"] = defaults.Organization
	}
	if u.Website == "" {
		fields["website"] = defaults.Website
	}
	if u.LinkedIn == "" {
		fields["linkedIn"] = defaults.LinkedIn
	}
	if u.Qualifications == "" {
		fields["qualifications"] = defaults.Qualifications
	}
	return fields
}
