// Package directory resolves MedKey IDs to patient display names. The portal
// treats the identity source as an external collaborator: deployments point
// DIRECTORY_URL at a real directory service, while the default static table
// carries the demo identities the prototype shipped with.
package directory

import (
	"context"
	"fmt"
)

// Directory looks up patient identity by MedKey ID.
type Directory interface {
	// Lookup returns the display name for a MedKey ID. ok is false when the
	// directory has no entry for the id.
	Lookup(ctx context.Context, medKeyID string) (name string, ok bool, err error)
}

// DisplayName resolves a roster display name, falling back to
// "Patient <id>" when the directory has no entry or is unreachable.
func DisplayName(ctx context.Context, d Directory, medKeyID string) string {
	if d != nil {
		if name, ok, err := d.Lookup(ctx, medKeyID); err == nil && ok {
			return name
		}
	}
	return fmt.Sprintf("Patient %s", medKeyID)
}

// staticDirectory is the built-in demo identity table.
type staticDirectory struct {
	names map[string]string
}

// NewStatic returns a Directory backed by the built-in demo identities.
func NewStatic() Directory {
	return &staticDirectory{names: map[string]string{
		"MK-ROJAN123": "Rojan Upreti",
		"MK-JSMITH45": "John Smith",
		"MK-EJOHNSON": "Emily Johnson",
		"MK-MBROWN78": "Michael Brown",
		"MK-SDAVIS90": "Sarah Davis",
	}}
}

func (d *staticDirectory) Lookup(_ context.Context, medKeyID string) (string, bool, error) {
	name, ok := d.names[medKeyID]
	return name, ok, nil
}
