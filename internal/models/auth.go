package models

// LoginRequest holds credentials for authenticating a principal. Username is
// the email address of a student, mentor or employer.
type LoginRequest struct {
	Username string `json:"email" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	IP       string `json:"-" form:"-"`
}

// TokenResponse is the OAuth2 style bearer token payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// PrincipalType names the table a principal was resolved from.
type PrincipalType string

const (
	PrincipalStudent  PrincipalType = "student"
	PrincipalMentor   PrincipalType = "mentor"
	PrincipalEmployer PrincipalType = "employer"
)

// Principal is the authenticated identity behind a token.
type Principal struct {
	Type     PrincipalType `json:"type"`
	ID       int64         `json:"id"`
	Email    string        `json:"email"`
	Name     string        `json:"name"`
	Student  *Student      `json:"student,omitempty"`
	Mentor   *Mentor       `json:"mentor,omitempty"`
	Employer *Employer     `json:"employer,omitempty"`
}
