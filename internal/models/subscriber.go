package models

import "time"

// Source tags what kind of form created a subscriber record.
type Source string

const (
	SourceHomepage Source = "homepage"
	SourcePartner  Source = "partner" // contact-form submission
	SourceFan      Source = "fan"
	SourceOther    Source = "other"
)

// Sources lists every accepted source.
var Sources = []Source{SourceHomepage, SourcePartner, SourceFan, SourceOther}

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	for _, v := range Sources {
		if s == v {
			return true
		}
	}
	return false
}

// IsContact reports whether the record came from the contact form.
func (s Source) IsContact() bool { return s == SourcePartner }

// SubscriberModel is a mailing-list member or a contact-form submitter, told
// apart by Source. Phone, Read and ReadAt only carry meaning for partner records.
type SubscriberModel struct {
	Base           `bson:",inline"`
	Email          string     `bson:"email"                    json:"email"`
	Name           string     `bson:"name"                     json:"name"`
	Source         Source     `bson:"source"                   json:"source"`
	Subscribed     bool       `bson:"subscribed"               json:"subscribed"`
	SubscribedAt   *time.Time `bson:"subscribedAt,omitempty"   json:"subscribedAt,omitempty"`
	UnsubscribedAt *time.Time `bson:"unsubscribedAt,omitempty" json:"unsubscribedAt,omitempty"`
	Tags           []string   `bson:"tags"                     json:"tags"`
	Notes          string     `bson:"notes,omitempty"          json:"notes,omitempty"`
	Phone          string     `bson:"phone,omitempty"          json:"phone,omitempty"`
	Read           bool       `bson:"read"                     json:"read"`
	ReadAt         *time.Time `bson:"readAt,omitempty"         json:"readAt,omitempty"`
}
