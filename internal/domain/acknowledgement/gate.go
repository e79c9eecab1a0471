// Package acknowledgement holds the per-role disclosure each party accepts
// once per job before work may start.
package acknowledgement

import (
	"strings"

	"mecanica_jobs/internal/domain/entities"
)

const DefaultVersion = "ACK_2026.01"

var bullets = map[entities.Role][]string{
	entities.RoleCustomer: {
		"I confirm I own or am authorized to request service on this vehicle.",
		"I understand WrenchGo is a marketplace; the mechanic is an independent provider.",
		"Diagnostics may reveal additional issues; pricing may change only with my approval.",
		"I will provide a safe, accessible workspace and accurate information.",
	},
	entities.RoleMechanic: {
		"I am an independent provider and responsible for my work and safety practices.",
		"I will communicate any additional required work and obtain approval before charging.",
		"I will follow safe procedures and stop work if conditions are unsafe.",
		"I will not request off-platform payment or contact outside the app.",
	},
}

// Bullets returns a copy of the disclosure lines for role.
func Bullets(role entities.Role) []string {
	return append([]string(nil), bullets[role]...)
}

func DefaultText(role entities.Role) string {
	return strings.Join(bullets[role], "\n")
}

// Normalize validates an acceptance request and fills in the defaults. Only
// customers and mechanics acknowledge; the actor may only accept for its own role.
func Normalize(actorRole, role entities.Role, version, text string) (string, string, error) {
	if role != entities.RoleCustomer && role != entities.RoleMechanic {
		return "", "", entities.NewValidationError("role must be customer or mechanic")
	}
	if actorRole != role {
		return "", "", entities.NewNotAuthorized("a %s cannot accept the %s acknowledgement", actorRole, role)
	}
	version = strings.TrimSpace(version)
	if version == "" {
		version = DefaultVersion
	}
	if !strings.HasPrefix(version, "ACK_") {
		return "", "", entities.NewValidationError("version must look like ACK_<version>")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = DefaultText(role)
	}
	return version, text, nil
}
