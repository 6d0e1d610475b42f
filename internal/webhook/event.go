package webhook

import "encoding/json"

// Event types delivered by the auth provider.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// Event is the envelope around every delivery. Data is decoded lazily since
// its shape depends on Type.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EmailAddress is one entry in the provider's email address list.
type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// UserData is the payload of user.* events. For user.deleted only ID and
// Deleted are populated.
type UserData struct {
	ID             string         `json:"id"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	ImageURL       string         `json:"image_url"`
	Deleted        bool           `json:"deleted"`
}

// PrimaryEmail returns the first email address, or empty when none were sent.
func (u UserData) PrimaryEmail() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}

// ParseEvent decodes a verified payload into its envelope.
func ParseEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// UserData decodes the event body as user data.
func (e *Event) UserData() (UserData, error) {
	var u UserData
	err := json.Unmarshal(e.Data, &u)
	return u, err
}
