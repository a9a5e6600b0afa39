// Package models defines the marketplace records exchanged with the backend.
package models

// Role separates task takers from advertisers who publish tasks.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdvertiser Role = "advertiser"
)

type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	DOB           string `json:"dob,omitempty"`
	StateID       string `json:"stateId,omitempty"`
	CityID        string `json:"cityId,omitempty"`
	ReferralCode  string `json:"referralCode,omitempty"`
	Role          Role   `json:"role,omitempty"`
	EmailVerified bool   `json:"emailVerified,omitempty"`
	PhoneVerified bool   `json:"phoneVerified,omitempty"`
}

// DisplayName is what the prompt shows for a logged-in user.
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return u.Phone
	}
}

// AuthResult is returned by login and registration.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token,omitempty"`
}

type State struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type City struct {
	ID      string `json:"id"`
	StateID string `json:"stateId"`
	Name    string `json:"name"`
}
