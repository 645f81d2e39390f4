// internal/app/features/shared/redact.go

// Package shared holds helpers used by more than one feature.
package shared

import (
	"github.com/webstackhq/webstack/internal/app/system/authz"
	"github.com/webstackhq/webstack/internal/domain/models"
)

// RedactMessage returns the message as the viewer should see it. Customers
// see staff senders under the brand name rather than individual staff
// identities; staff and admin viewers see raw names. The stored record is
// never changed.
func RedactMessage(viewerRole, brandName string, m models.Message) models.Message {
	if viewerRole == authz.RoleCustomer && authz.StaffRole(m.SenderRole) {
		m.SenderName = brandName
	}
	return m
}

// RedactMessages applies RedactMessage across a thread.
func RedactMessages(viewerRole, brandName string, msgs []models.Message) []models.Message {
	out := make([]models.Message, len(msgs))
	for i, m := range msgs {
		out[i] = RedactMessage(viewerRole, brandName, m)
	}
	return out
}
