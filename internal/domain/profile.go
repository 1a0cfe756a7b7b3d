package domain

import "encoding/json"

// ProfileFacts are the profile values shown publicly that do not live in
// UserSettings. They are supplied by whoever builds the engine.
type ProfileFacts struct {
	Location string `json:"location"`
	Earnings string `json:"earnings"`
}

// DefaultProfileFacts returns the stock facts for the demo account.
func DefaultProfileFacts() ProfileFacts {
	return ProfileFacts{
		Location: "Village Rampur, Varanasi",
		Earnings: "₹2.4L",
	}
}

// Redacted is a profile value that is either visible or explicitly hidden.
// A hidden value never carries the real data.
type Redacted struct {
	value  string
	hidden bool
}

// Visible wraps a value that may be shown.
func Visible(v string) Redacted { return Redacted{value: v} }

// Hidden is the marker for a value the owner chose to hide.
func Hidden() Redacted { return Redacted{hidden: true} }

// IsHidden reports whether the value is withheld.
func (r Redacted) IsHidden() bool { return r.hidden }

// Value returns the value and true, or "" and false when hidden.
func (r Redacted) Value() (string, bool) {
	if r.hidden {
		return "", false
	}
	return r.value, true
}

// String renders hidden values as "hidden".
func (r Redacted) String() string {
	if r.hidden {
		return "hidden"
	}
	return r.value
}

// MarshalJSON encodes hidden values as null.
func (r Redacted) MarshalJSON() ([]byte, error) {
	if r.hidden {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

// PublicProfile is what other users see. It is computed from the current
// settings on every read and is never stored.
type PublicProfile struct {
	DisplayName string   `json:"displayName"`
	Phone       Redacted `json:"phone"`
	Location    Redacted `json:"location"`
	Earnings    Redacted `json:"earnings"`
}

// NewPublicProfile projects s and facts, hiding every field whose privacy flag is set.
func NewPublicProfile(s UserSettings, facts ProfileFacts) PublicProfile {
	return PublicProfile{
		DisplayName: s.DisplayName,
		Phone:       redact(s.Phone, s.HidePhoneNumber),
		Location:    redact(facts.Location, s.HideLocation),
		Earnings:    redact(facts.Earnings, s.HideEarnings),
	}
}

func redact(v string, hide bool) Redacted {
	if hide {
		return Hidden()
	}
	return Visible(v)
}
