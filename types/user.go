package types

// User represents an account in the system.
type User struct {
	// ID is the unique identifier generated by the store.
	ID int64 `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Role is a free-form label. It is stored but never enforced.
	Role string `json:"role" db:"role"`

	// Email is the user's email address.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password"`
}
