package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ContactDetails is the semi-structured blob stored in
// resources.contact_details. Field names are part of the stored-data
// contract and must not change. Absent fields stay empty; consumers
// never see null.
type ContactDetails struct {
	Address     string       `json:"address"`
	Phone       string       `json:"phone,omitempty"`
	Email       string       `json:"email,omitempty"`
	Website     string       `json:"website,omitempty"`
	Description string       `json:"description,omitempty"`
	Services    []string     `json:"services,omitempty"`
	Eligibility []string     `json:"eligibility,omitempty"`
	Hours       []HoursEntry `json:"hours,omitempty"`
}

type HoursEntry struct {
	Day   string `json:"day"`
	Hours string `json:"hours"`
}

// ContactDetailsPatch is the partial-update shape for ContactDetails.
// Nil means "not supplied, keep the stored value"; a non-nil list
// replaces the stored list wholesale (clients send the full desired
// list, there is no element-wise append).
type ContactDetailsPatch struct {
	Address     *string       `json:"address"`
	Phone       *string       `json:"phone"`
	Email       *string       `json:"email"`
	Website     *string       `json:"website"`
	Description *string       `json:"description"`
	Services    *[]string     `json:"services"`
	Eligibility *[]string     `json:"eligibility"`
	Hours       *[]HoursEntry `json:"hours"`
}

// Merge applies the supplied keys of the patch over the receiver and
// returns the result. Keys absent from the patch keep their prior value.
func (cd ContactDetails) Merge(patch ContactDetailsPatch) ContactDetails {
	if patch.Address != nil {
		cd.Address = *patch.Address
	}
	if patch.Phone != nil {
		cd.Phone = *patch.Phone
	}
	if patch.Email != nil {
		cd.Email = *patch.Email
	}
	if patch.Website != nil {
		cd.Website = *patch.Website
	}
	if patch.Description != nil {
		cd.Description = *patch.Description
	}
	if patch.Services != nil {
		cd.Services = *patch.Services
	}
	if patch.Eligibility != nil {
		cd.Eligibility = *patch.Eligibility
	}
	if patch.Hours != nil {
		cd.Hours = *patch.Hours
	}
	return cd
}

// Note is one entry of the append-only notes log on a resource.
type Note struct {
	UserID    uint      `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// DecodeContactDetails parses the stored jsonb blob. Malformed or empty
// blobs decode to the zero value rather than failing the read path.
func DecodeContactDetails(raw datatypes.JSON) ContactDetails {
	var cd ContactDetails
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &cd)
	}
	return cd
}

// DecodeNotes parses the stored notes log, oldest first. Legacy rows
// hold the log double-encoded as a JSON string; both forms decode.
func DecodeNotes(raw datatypes.JSON) []Note {
	if len(raw) == 0 {
		return []Note{}
	}
	var notes []Note
	if err := json.Unmarshal(raw, &notes); err == nil && notes != nil {
		return notes
	}
	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		if err := json.Unmarshal([]byte(nested), &notes); err == nil && notes != nil {
			return notes
		}
	}
	return []Note{}
}

// EncodeJSON marshals v into a jsonb column value.
func EncodeJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}
