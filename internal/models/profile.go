package models

// Profile holds the locally persisted user profile.
// It lives in the session key-value store: created at onboarding, mutated at
// profile save, fully erased at logout.
type Profile struct {
	// FirstName is required at onboarding.
	FirstName string `json:"firstName" validate:"required"`

	// LastName may be left empty until the user edits their profile.
	LastName string `json:"lastName"`

	// Email is required at onboarding and must be a valid address.
	Email string `json:"email" validate:"required,email"`

	// Phone is an optional contact number.
	Phone string `json:"phone" validate:"omitempty,e164"`

	// Avatar is a URI string pointing at the user's picture.
	Avatar string `json:"avatar" validate:"omitempty,uri"`
}
