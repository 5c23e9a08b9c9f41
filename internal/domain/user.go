package domain

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt Timestamp `json:"created_at"`
}

// CurrentUser is the marker kept under "currentUser". It is not a session credential.
type CurrentUser struct {
	Email string `json:"email"`
}
