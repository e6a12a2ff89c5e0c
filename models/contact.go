package models

import "encoding/json"

// EmailList handles the Dex wire shape for contact emails, which arrive as an
// array of {"email": "..."} objects rather than plain strings.
type EmailList []string

func (l *EmailList) UnmarshalJSON(data []byte) error {
	var entries []struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	emails := make([]string, 0, len(entries))
	for _, entry := range entries {
		emails = append(emails, entry.Email)
	}
	*l = emails
	return nil
}

func (l EmailList) MarshalJSON() ([]byte, error) {
	entries := make([]map[string]string, 0, len(l))
	for _, email := range l {
		entries = append(entries, map[string]string{"email": email})
	}
	return json.Marshal(entries)
}

// PhoneList handles the Dex wire shape for contact phone numbers, which arrive
// as an array of {"phone_number": "..."} objects.
type PhoneList []string

func (l *PhoneList) UnmarshalJSON(data []byte) error {
	var entries []struct {
		Phone string `json:"phone_number"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	phones := make([]string, 0, len(entries))
	for _, entry := range entries {
		phones = append(phones, entry.Phone)
	}
	*l = phones
	return nil
}

func (l PhoneList) MarshalJSON() ([]byte, error) {
	entries := make([]map[string]string, 0, len(l))
	for _, phone := range l {
		entries = append(entries, map[string]string{"phone_number": phone})
	}
	return json.Marshal(entries)
}

// SocialProfile is a social media profile attached to a contact.
type SocialProfile struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	URL      string `json:"url"`
}

// Contact is a person in the Dex personal CRM.
//
// Name, Email, Phone and Title are computed fields: the API sends first/last
// name and email/phone entry arrays, and Normalize derives the rest. Call
// Normalize after decoding a contact from the API.
type Contact struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	Email  string    `json:"email,omitempty"`
	Emails EmailList `json:"emails,omitempty"`
	Phone  string    `json:"phone,omitempty"`
	Phones PhoneList `json:"phones,omitempty"`

	JobTitle    string `json:"job_title,omitempty"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description,omitempty"`

	Tags           []string        `json:"tags,omitempty"`
	SocialProfiles []SocialProfile `json:"social_profiles,omitempty"`

	Website    string `json:"website,omitempty"`
	Location   string `json:"location,omitempty"`
	Birthday   string `json:"birthday_current_year,omitempty"`
	LastSeenAt string `json:"last_seen_at,omitempty"`

	IsArchived bool   `json:"is_archived,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// Normalize populates the computed fields from decoded API data: the display
// name from first/last name, the primary email and phone from the entry
// lists, and the title alias from the job title.
func (c *Contact) Normalize() {
	switch {
	case c.FirstName != "" && c.LastName != "":
		c.Name = c.FirstName + " " + c.LastName
	case c.FirstName != "":
		c.Name = c.FirstName
	case c.LastName != "":
		c.Name = c.LastName
	}

	if c.Email == "" && len(c.Emails) > 0 {
		c.Email = c.Emails[0]
	}
	if c.Phone == "" && len(c.Phones) > 0 {
		c.Phone = c.Phones[0]
	}
	if c.Title == "" {
		c.Title = c.JobTitle
	}
}

// AllEmails returns the primary email followed by the secondary ones, with
// consecutive duplicates removed.
func (c *Contact) AllEmails() []string {
	emails := make([]string, 0, len(c.Emails)+1)
	if c.Email != "" {
		emails = append(emails, c.Email)
	}
	emails = append(emails, c.Emails...)
	return dedupConsecutive(emails)
}

// AllPhones returns the primary phone followed by the secondary ones, with
// consecutive duplicates removed.
func (c *Contact) AllPhones() []string {
	phones := make([]string, 0, len(c.Phones)+1)
	if c.Phone != "" {
		phones = append(phones, c.Phone)
	}
	phones = append(phones, c.Phones...)
	return dedupConsecutive(phones)
}

func dedupConsecutive(values []string) []string {
	deduped := values[:0]
	for i, v := range values {
		if i == 0 || values[i-1] != v {
			deduped = append(deduped, v)
		}
	}
	return deduped
}
