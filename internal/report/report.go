// Package report renders users and notifications as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"lmsops/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const timeLayout = "2006-01-02 15:04"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// Users writes a table of users followed by a count line.
func Users(w io.Writer, users []*model.User) error {
	t := newTable("ID", "NAME", "EMAIL", "ROLE", "MENTOR", "CREATED")
	for _, u := range users {
		t.Row(
			u.ID.Hex(),
			u.Name,
			u.Email,
			u.Role,
			strconv.FormatBool(u.IsMentor),
			formatTime(u.CreatedAt),
		)
	}
	return write(w, t, len(users), "user")
}

// Instructors writes teachers with their instructor profile.
func Instructors(w io.Writer, users []*model.User) error {
	t := newTable("NAME", "EMAIL", "ROLE", "TITLE", "ORGANIZATION", "MISSING")
	for _, u := range users {
		missing := "-"
		if m := u.MissingInstructorFields(); len(m) > 0 {
			missing = strconv.Itoa(len(m))
		}
		t.Row(u.Name, u.Email, u.Role, u.ProfessionalTitle, u.Organization, missing)
	}
	return write(w, t, len(users), "teacher")
}

// Notifications writes a table of notifications in the order given.
func Notifications(w io.Writer, ns []*model.Notification) error {
	t := newTable("ID", "RECIPIENT", "TYPE", "MESSAGE", "READ", "CREATED")
	for _, n := range ns {
		t.Row(
			n.ID.Hex(),
			n.Recipient.Hex(),
			n.Type,
			truncate(n.Message, 60),
			strconv.FormatBool(n.IsRead),
			formatTime(n.CreatedAt),
		)
	}
	return write(w, t, len(ns), "notification")
}

// User writes a single user as key/value lines.
func User(w io.Writer, u *model.User) error {
	p := u.Profile()
	_, err := fmt.Fprintf(w,
		"name: %s\nemail: %s\nrole: %s\nprofessionalTitle: %s\norganization: %s\nwebsite: %s\nlinkedIn: %s\nqualifications: %s\n",
		u.Name, u.Email, u.Role,
		p.ProfessionalTitle, p.Organization, p.Website, p.LinkedIn, p.Qualifications,
	)
	return err
}

func write(w io.Writer, t *table.Table, n int, noun string) error {
	if n > 0 {
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d %s\n", n, plural(n, noun))
	return err
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
