package domain

import "time"

// Person is a counterparty with whom debts are tracked.
type Person struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PersonInsert is the shape accepted when creating a person.
// Id, owner and timestamps are assigned by the store.
type PersonInsert struct {
	Name  string  `json:"name"  validate:"notblank"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

// PersonUpdate carries the fields to change. Nil fields are left untouched.
type PersonUpdate struct {
	Name  *string `json:"name"  validate:"omitempty,notblank"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

func (in PersonInsert) Validate() error {
	return validateStruct(in)
}

func (in PersonUpdate) Validate() error {
	return validateStruct(in)
}

// IsEmpty reports whether the update changes nothing.
func (in PersonUpdate) IsEmpty() bool {
	return in.Name == nil && in.Email == nil && in.Phone == nil && in.Notes == nil
}
