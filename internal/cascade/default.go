package cascade

import (
	"fmt"

	"github.com/krishiapp/krishi-settings/internal/domain"
)

// MasterNotificationsOff is the name of the single built-in rule.
const MasterNotificationsOff = "master-notifications-off"

// Default returns the rule set used by the app: turning the master
// notification switch off turns the six dependents off, and a dependent
// cannot be switched on while the master is off. Switching the master back
// on leaves dependents as they are.
func Default() *RuleSet {
	dependents := domain.NotificationDependents()

	effects := make([]Effect, 0, len(dependents))
	constraints := make([]Constraint, 0, len(dependents))
	for _, f := range dependents {
		effects = append(effects, Effect{Field: f, Value: false})
		constraints = append(constraints, Constraint{
			Field:    f,
			When:     true,
			Requires: string(domain.FieldMasterNotifications) + " == true",
			Message:  fmt.Sprintf("%s cannot be enabled while master notifications are off", f),
		})
	}

	rs, err := New([]Rule{{
		Name:    MasterNotificationsOff,
		Trigger: domain.FieldMasterNotifications,
		When:    false,
		Effects: effects,
	}}, constraints)
	if err != nil {
		// The built-in table is static; failing here is a programming error.
		panic(fmt.Sprintf("cascade: default rules: %v", err))
	}
	return rs
}
