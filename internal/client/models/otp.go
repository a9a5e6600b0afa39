package models

// Channel is where an OTP is delivered.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

// Registration is the payload of the final signup step.
type Registration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	DOB          string `json:"dob"`
	StateID      string `json:"stateId"`
	CityID       string `json:"cityId"`
	ReferralCode string `json:"referralCode,omitempty"`
}
