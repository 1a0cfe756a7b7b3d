package domain

import (
	"fmt"

	"github.com/krishiapp/krishi-settings/internal/normalize"
)

// Field names one preference in UserSettings. The value is the JSON key.
type Field string

// Preference fields.
const (
	FieldDisplayName Field = "displayName"
	FieldPhone       Field = "phone"
	FieldEmail       Field = "email"
	FieldLanguage    Field = "language"

	FieldMasterNotifications Field = "masterNotifications"
	FieldPushNotifications   Field = "pushNotifications"
	FieldEmailNotifications  Field = "emailNotifications"
	FieldSMSNotifications    Field = "smsNotifications"
	FieldPromotionalAlerts   Field = "promotionalAlerts"
	FieldPriceAlerts         Field = "priceAlerts"
	FieldOrderUpdates        Field = "orderUpdates"

	FieldHidePhoneNumber Field = "hidePhoneNumber"
	FieldHideLocation    Field = "hideLocation"
	FieldHideEarnings    Field = "hideEarnings"

	FieldDarkMode           Field = "darkMode"
	FieldAutoDetectLocation Field = "autoDetectLocation"
	FieldVoiceInput         Field = "voiceInput"
	FieldBiometricLogin     Field = "biometricLogin"

	FieldAutoSync    Field = "autoSync"
	FieldOfflineMode Field = "offlineMode"
)

// Kind is the declared value type of a field.
type Kind int

// Field kinds.
const (
	KindBool Kind = iota + 1
	KindString
	KindLanguage
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindLanguage:
		return "language"
	default:
		return "unknown"
	}
}

// Group is the section of the settings screen a field belongs to.
type Group string

// Field groups.
const (
	GroupIdentity      Group = "identity"
	GroupNotifications Group = "notifications"
	GroupPrivacy       Group = "privacy"
	GroupPreferences   Group = "preferences"
	GroupData          Group = "data"
)

type fieldSpec struct {
	group Group
	kind  Kind
	get   func(*UserSettings) any
	set   func(*UserSettings, any)
	// clean normalizes string input before it is stored.
	clean func(string) string
}

func boolField(g Group, p func(*UserSettings) *bool) fieldSpec {
	return fieldSpec{
		group: g,
		kind:  KindBool,
		get:   func(s *UserSettings) any { return *p(s) },
		set:   func(s *UserSettings, v any) { *p(s) = v.(bool) },
	}
}

func stringField(g Group, p func(*UserSettings) *string) fieldSpec {
	return fieldSpec{
		group: g,
		kind:  KindString,
		get:   func(s *UserSettings) any { return *p(s) },
		set:   func(s *UserSettings, v any) { *p(s) = v.(string) },
		clean: normalize.Text,
	}
}

var catalog = map[Field]fieldSpec{
	FieldDisplayName: stringField(GroupIdentity, func(s *UserSettings) *string { return &s.DisplayName }),
	FieldPhone:       stringField(GroupIdentity, func(s *UserSettings) *string { return &s.Phone }),
	FieldEmail:       stringField(GroupIdentity, func(s *UserSettings) *string { return &s.Email }),
	FieldLanguage: {
		group: GroupIdentity,
		kind:  KindLanguage,
		get:   func(s *UserSettings) any { return s.Language },
		set:   func(s *UserSettings, v any) { s.Language = v.(Language) },
	},

	FieldMasterNotifications: boolField(GroupNotifications, func(s *UserSettings) *bool { return &s.MasterNotifications }),
	FieldPushNotifications:   boolField(GroupNotifications, func(s *UserSettings) *bool { return &s.PushNotifications }),
	FieldEmailNotifications:  boolField(GroupNotifications, func(s *UserSettings) *bool { return &s.EmailNotifications }),
	FieldSMSNotifications:    boolField(GroupNotifications, func(s *UserSettings) *bool { return &s.SMSNotifications }),
	FieldPromotionalAlerts:   boolField(GroupNotifications, func(s *UserSettings) *bool { return &s.PromotionalAlerts }),
	FieldPriceAlerts:         boolField(GroupNotifications, func(s *UserSettings) *bool { return &s.PriceAlerts }),
	FieldOrderUpdates:        boolField(GroupNotifications, func(s *UserSettings) *bool { return &s.OrderUpdates }),

	FieldHidePhoneNumber: boolField(GroupPrivacy, func(s *UserSettings) *bool { return &s.HidePhoneNumber }),
	FieldHideLocation:    boolField(GroupPrivacy, func(s *UserSettings) *bool { return &s.HideLocation }),
	FieldHideEarnings:    boolField(GroupPrivacy, func(s *UserSettings) *bool { return &s.HideEarnings }),

	FieldDarkMode:           boolField(GroupPreferences, func(s *UserSettings) *bool { return &s.DarkMode }),
	FieldAutoDetectLocation: boolField(GroupPreferences, func(s *UserSettings) *bool { return &s.AutoDetectLocation }),
	FieldVoiceInput:         boolField(GroupPreferences, func(s *UserSettings) *bool { return &s.VoiceInput }),
	FieldBiometricLogin:     boolField(GroupPreferences, func(s *UserSettings) *bool { return &s.BiometricLogin }),

	FieldAutoSync:    boolField(GroupData, func(s *UserSettings) *bool { return &s.AutoSync }),
	FieldOfflineMode: boolField(GroupData, func(s *UserSettings) *bool { return &s.OfflineMode }),
}

// fieldOrder is the screen order; Diff and ToMap iterate it.
var fieldOrder = []Field{
	FieldDisplayName, FieldPhone, FieldEmail, FieldLanguage,
	FieldMasterNotifications, FieldPushNotifications, FieldEmailNotifications,
	FieldSMSNotifications, FieldPromotionalAlerts, FieldPriceAlerts, FieldOrderUpdates,
	FieldHidePhoneNumber, FieldHideLocation, FieldHideEarnings,
	FieldDarkMode, FieldAutoDetectLocation, FieldVoiceInput, FieldBiometricLogin,
	FieldAutoSync, FieldOfflineMode,
}

// Fields returns every known field in screen order.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// NotificationDependents returns the six fields gated by FieldMasterNotifications.
func NotificationDependents() []Field {
	return []Field{
		FieldPushNotifications,
		FieldEmailNotifications,
		FieldSMSNotifications,
		FieldPromotionalAlerts,
		FieldPriceAlerts,
		FieldOrderUpdates,
	}
}

// Known reports whether f is part of UserSettings.
func (f Field) Known() bool {
	_, ok := catalog[f]
	return ok
}

// Kind returns the declared type of f, or 0 if unknown.
func (f Field) Kind() Kind {
	return catalog[f].kind
}

// Group returns the section f belongs to.
func (f Field) Group() Group {
	return catalog[f].group
}

// Coerce checks v against the declared kind of f and returns the value in
// its canonical Go type. Language fields accept a Language or any string
// ParseLanguage understands.
func (f Field) Coerce(v any) (any, error) {
	spec, ok := catalog[f]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", f)
	}

	switch spec.kind {
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%s must be a %s, got %T", f, spec.kind, v)
		}
		return b, nil
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a %s, got %T", f, spec.kind, v)
		}
		return spec.clean(s), nil
	case KindLanguage:
		switch l := v.(type) {
		case Language:
			if !l.Supported() {
				return nil, fmt.Errorf("%s: unsupported language %q", f, string(l))
			}
			return l, nil
		case string:
			lang, err := ParseLanguage(l)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f, err)
			}
			return lang, nil
		default:
			return nil, fmt.Errorf("%s must be a %s code, got %T", f, spec.kind, v)
		}
	default:
		return nil, fmt.Errorf("field %q has no kind", f)
	}
}
