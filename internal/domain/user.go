package domain

type User struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// UserPatch carries the fields of a partial user update; nil fields are left untouched.
type UserPatch struct {
	Name  *string
	Email *string
}
