package models

// Access levels a user can hold.
const (
	LevelViewer = "viewer"
	LevelWriter = "writer"
)

// User represents an account that can sign in. The ID is the user's
// e-mail address and the Password field always holds a versioned hash,
// never a plaintext password.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Level    string `json:"level"`
}

// ValidLevel reports whether level is one of the known access levels.
func ValidLevel(level string) bool {
	return level == LevelViewer || level == LevelWriter
}
