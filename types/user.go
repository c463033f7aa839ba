package types

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// User represents an account row in the "user" relation.
// Every field except ID is optional.
type User struct {
	// ID is the unique identifier generated by the database.
	ID int `json:"id" gorm:"column:id;primaryKey;autoIncrement"`

	// Pseudo is the user's public nickname.
	Pseudo *string `json:"pseudo,omitempty" gorm:"column:pseudo;size:255"`

	// Email is the user's email address and login identifier.
	Email *string `json:"email,omitempty" gorm:"column:email;size:255;uniqueIndex"`

	// PasswordHash holds the bcrypt hash of the user's password.
	// A stored value is always a hash, never plaintext.
	PasswordHash *string `json:"password_hash,omitempty" gorm:"column:password_hash;size:255"`

	// Role indicates the user's authorization level (e.g., "admin", "user").
	Role *string `json:"role,omitempty" gorm:"column:role;size:64"`
}

// TableName maps User to the singular "user" relation.
func (User) TableName() string { return "user" }

// NewUser is the create input and the update patch. On input PasswordHash
// carries the plaintext password; it is hashed before it reaches the database.
type NewUser struct {
	Pseudo       *string `json:"pseudo,omitempty"`
	Email        *string `json:"email,omitempty"`
	PasswordHash *string `json:"password_hash,omitempty"`
	Role         *string `json:"role,omitempty"`
}

// IsEmpty reports whether no field is set.
func (n NewUser) IsEmpty() bool {
	return n.Pseudo == nil && n.Email == nil && n.PasswordHash == nil && n.Role == nil
}

// Validate checks the fields that are present. It is used for update patches.
func (n NewUser) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Pseudo, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&n.Email, validation.NilOrNotEmpty, is.Email, validation.Length(3, 255)),
		// bcrypt rejects passwords over 72 bytes.
		validation.Field(&n.PasswordHash, validation.NilOrNotEmpty, validation.Length(1, 72)),
		validation.Field(&n.Role, validation.NilOrNotEmpty, validation.Length(1, 64)),
	)
}

// ValidateCreate is Validate plus a required password.
func (n NewUser) ValidateCreate() error {
	if err := validation.ValidateStruct(&n,
		validation.Field(&n.PasswordHash, validation.Required),
	); err != nil {
		return err
	}
	return n.Validate()
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
