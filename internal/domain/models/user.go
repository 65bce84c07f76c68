package models

// UserProfile is the signed-in customer's profile.
type UserProfile struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phoneNumber"`
	Address        string `json:"address,omitempty"`
	ProfilePicture string `json:"profilePictureUrl,omitempty"`
	ReferralCode   string `json:"referralCode,omitempty"`
	Verified       bool   `json:"emailVerified"`
}

func (u UserProfile) DisplayName() string {
	c := Contact{FirstName: u.FirstName, LastName: u.LastName}
	if n := c.FullName(); n != "" {
		return n
	}
	return u.Email
}

// ProfileUpdate supports PATCH-style updates via key presence.
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phoneNumber,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// Empty reports whether no field is set.
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.Address == nil
}
