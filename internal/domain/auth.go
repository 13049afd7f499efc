package domain

import "time"

// Resolution reports whether an email is taken and in which identity space.
type Resolution struct {
	Exists bool
	Role   Role
}

// Session bundles the tokens handed out on login or refresh.
type Session struct {
	Principal    Principal
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string
}
