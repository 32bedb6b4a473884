package domain

import "strings"

// UserProfile is descriptive only; Currency drives display formatting.
type UserProfile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoUrl"`
	Bio      string `json:"bio,omitempty"`
	Currency string `json:"currency"`
}

// DefaultProfile is used when nothing has been persisted yet.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:     "Premium User",
		Email:    "wealth.master@wealthsense.app",
		PhotoURL: "https://picsum.photos/200/200?seed=luxury",
		Bio:      "Wealth Enthusiast & Digital Minimalist",
		Currency: "INR",
	}
}

// Validate only requires a name.
func (p UserProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
