package domain

// UserSettings is the full preference bag shown on the settings screen.
// Every field always holds a value; there are no optional members.
// JSON keys double as the field names accepted by update operations.
type UserSettings struct {
	// Identity
	DisplayName string   `json:"displayName" validate:"required,max=100"`
	Phone       string   `json:"phone" validate:"max=32"`
	Email       string   `json:"email" validate:"omitempty,email,max=254"`
	Language    Language `json:"language" validate:"language"`

	// Notifications
	MasterNotifications bool `json:"masterNotifications"`
	PushNotifications   bool `json:"pushNotifications"`
	EmailNotifications  bool `json:"emailNotifications"`
	SMSNotifications    bool `json:"smsNotifications"`
	PromotionalAlerts   bool `json:"promotionalAlerts"`
	PriceAlerts         bool `json:"priceAlerts"`
	OrderUpdates        bool `json:"orderUpdates"`

	// Privacy
	HidePhoneNumber bool `json:"hidePhoneNumber"`
	HideLocation    bool `json:"hideLocation"`
	HideEarnings    bool `json:"hideEarnings"`

	// Preferences
	DarkMode           bool `json:"darkMode"`
	AutoDetectLocation bool `json:"autoDetectLocation"`
	VoiceInput         bool `json:"voiceInput"`
	BiometricLogin     bool `json:"biometricLogin"`

	// Data
	AutoSync    bool `json:"autoSync"`
	OfflineMode bool `json:"offlineMode"`
}

// DefaultUserSettings returns the stock bag used to seed an empty store.
// Callers own the returned value and may adjust it before handing it to the engine.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		DisplayName: "Ramesh Kumar",
		Phone:       "+91 98765 43210",
		Email:       "ramesh@example.com",
		Language:    LanguageEnglish,

		MasterNotifications: true,
		PushNotifications:   true,
		EmailNotifications:  false,
		SMSNotifications:    true,
		PromotionalAlerts:   false,
		PriceAlerts:         true,
		OrderUpdates:        true,

		HidePhoneNumber: false,
		HideLocation:    false,
		HideEarnings:    true,

		DarkMode:           false,
		AutoDetectLocation: true,
		VoiceInput:         true,
		BiometricLogin:     false,

		AutoSync:    true,
		OfflineMode: false,
	}
}

// Get returns the current value of f, or nil for an unknown field.
func (s UserSettings) Get(f Field) any {
	spec, ok := catalog[f]
	if !ok {
		return nil
	}
	return spec.get(&s)
}

// Apply returns a copy of s with changes merged in.
// Values must already be coerced with Field.Coerce.
func (s UserSettings) Apply(changes map[Field]any) UserSettings {
	next := s
	for f, v := range changes {
		if spec, ok := catalog[f]; ok {
			spec.set(&next, v)
		}
	}
	return next
}

// Diff lists the fields whose values differ between s and other, in catalog order.
func (s UserSettings) Diff(other UserSettings) []Field {
	var out []Field
	for _, f := range fieldOrder {
		if s.Get(f) != other.Get(f) {
			out = append(out, f)
		}
	}
	return out
}

// ToMap flattens the bag into field name → value. Language values are plain strings.
func (s UserSettings) ToMap() map[string]any {
	out := make(map[string]any, len(fieldOrder))
	for _, f := range fieldOrder {
		v := s.Get(f)
		if l, ok := v.(Language); ok {
			v = string(l)
		}
		out[string(f)] = v
	}
	return out
}

// Theme derives the UI theme from DarkMode.
func (s UserSettings) Theme() Theme {
	if s.DarkMode {
		return ThemeDark
	}
	return ThemeLight
}
