package model

import "fmt"

// Candidate is the profile currently shown to a user.
type Candidate struct {
	VKID       int64    `json:"vk_id"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	ProfileURL string   `json:"profile_url"`
	Photos     []string `json:"photos"`
}

// ProfileURL builds the public link to a VK profile.
func ProfileURL(id int64) string {
	return fmt.Sprintf("https://vk.com/id%d", id)
}

// FullName joins first and last name.
func (c Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}

// SavedAtLayout is the local-time ISO-8601 layout of FavoriteRecord.SavedAt.
const SavedAtLayout = "2006-01-02T15:04:05.000000"

// FavoriteRecord is a Candidate saved to favorites. SavedAt keeps the
// ISO-8601 string as written so that records survive a load/save unchanged.
type FavoriteRecord struct {
	Candidate
	SavedAt string `json:"saved_at"`
}
