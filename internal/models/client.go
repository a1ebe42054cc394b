package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrRecipientNoMobile  = errors.New("recipient has no mobile number")
	ErrRecipientNoProfile = errors.New("recipient has no profile reference")
)

// Client owns one or more devices and receives maintenance reminders.
type Client struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Mobile      string             `bson:"mobile" json:"mobile"`
	ProfileSlug string             `bson:"profile_slug" json:"profile_slug"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Recipient is the campaign-facing view of a client.
type Recipient struct {
	ClientID    string `json:"client_id"`
	Name        string `json:"name"`
	Mobile      string `json:"mobile"`
	ProfileSlug string `json:"profile_slug"`
}

// Recipient projects the client into its campaign view.
func (c *Client) Recipient() Recipient {
	return Recipient{
		ClientID:    c.ID.Hex(),
		Name:        c.Name,
		Mobile:      c.Mobile,
		ProfileSlug: c.ProfileSlug,
	}
}

// Eligible reports whether the recipient can be dispatched to. An
// ineligible recipient is recorded as a failure without touching the
// transport gateway.
func (r Recipient) Eligible() error {
	if r.Mobile == "" {
		return ErrRecipientNoMobile
	}
	if r.ProfileSlug == "" {
		return ErrRecipientNoProfile
	}
	return nil
}
