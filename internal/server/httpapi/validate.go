package httpapi

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

const (
	msgInvalidEmail     = "Please provide a valid email address"
	msgPasswordTooShort = "Password must be at least 6 characters long"
	msgPasswordTooLong  = "Password must be at most 72 bytes long"
	msgPasswordRequired = "Password is required"
	msgTitleRequired    = "Task title is required"
	msgTitleEmpty       = "Task title cannot be empty"
	msgTitleTooLong     = "Task title must be less than 255 characters"
	msgCompletedBool    = "Completed must be a boolean value"
	msgInvalidBody      = "Invalid request body"

	minPasswordLength = 6
)

var errInvalidBody = errors.New("invalid request body")

// violations collects field messages in rule order.
type violations []string

func (v *violations) add(ok bool, msg string) {
	if !ok {
		*v = append(*v, msg)
	}
}

func (v violations) Error() string {
	return strings.Join(v, ", ")
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// validEmail accepts a bare addr-spec whose domain has at least one dot.
func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	a, err := mail.ParseAddress(s)
	if err != nil || a.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

type credentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (r credentialsRequest) validateRegister() error {
	var v violations
	v.add(validEmail(r.Email), msgInvalidEmail)
	v.add(utf8.RuneCountInString(r.Password) >= minPasswordLength, msgPasswordTooShort)
	v.add(len(r.Password) <= auth.MaxPasswordBytes, msgPasswordTooLong)
	return v.err()
}

func (r credentialsRequest) validateLogin() error {
	var v violations
	v.add(validEmail(r.Email), msgInvalidEmail)
	v.add(r.Password != "", msgPasswordRequired)
	return v.err()
}

type createTaskRequest struct {
	Title       string  `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
}

func (r *createTaskRequest) validate() error {
	r.Title = strings.TrimSpace(r.Title)
	var v violations
	v.add(r.Title != "", msgTitleRequired)
	v.add(utf8.RuneCountInString(r.Title) <= models.TitleMaxLength, msgTitleTooLong)
	return v.err()
}

// updateTaskRequest is the decoded PUT body. It stays a map so a field sent
// as null can be told apart from a field left out.
type updateTaskRequest map[string]any

func (r updateTaskRequest) patch() (models.TaskPatch, error) {
	var (
		v     violations
		patch models.TaskPatch
	)

	if raw, ok := r["title"]; ok {
		switch t := raw.(type) {
		case nil:
			v.add(false, msgTitleEmpty)
		case string:
			title := strings.TrimSpace(t)
			v.add(title != "", msgTitleEmpty)
			v.add(utf8.RuneCountInString(title) <= models.TitleMaxLength, msgTitleTooLong)
			patch.Title = &title
		default:
			return patch, errInvalidBody
		}
	}

	// a null description leaves the stored one as is
	switch d := r["description"].(type) {
	case nil:
	case string:
		patch.Description = &d
	default:
		return patch, errInvalidBody
	}

	if raw, ok := r["completed"]; ok {
		completed, isBool := raw.(bool)
		v.add(isBool, msgCompletedBool)
		patch.Completed = &completed
	}

	return patch, v.err()
}
