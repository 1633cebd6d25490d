package domain

import "strings"

// Family identifies one of the Falcon resource families.
type Family string

// Resource families.
const (
	FamilyDetection Family = "detections"
	FamilyIncident  Family = "incidents"
	FamilyBehavior  Family = "behaviors"
	FamilyDevice    Family = "devices"
)

// Families returns all supported families in display order.
func Families() []Family {
	return []Family{FamilyDetection, FamilyIncident, FamilyBehavior, FamilyDevice}
}

// String returns the family name.
func (f Family) String() string {
	return string(f)
}

// Singular returns the singular noun used in user-facing messages.
func (f Family) Singular() string {
	return strings.TrimSuffix(string(f), "s")
}

// IsValid reports whether f is a supported family.
func (f Family) IsValid() bool {
	for _, known := range Families() {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFamily converts a user-supplied name to a Family.
// Accepts singular and plural forms, case-insensitive.
func ParseFamily(s string) (Family, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "detection", "detections", "detect", "detects":
		return FamilyDetection, nil
	case "incident", "incidents":
		return FamilyIncident, nil
	case "behavior", "behaviors", "behaviour", "behaviours":
		return FamilyBehavior, nil
	case "device", "devices", "host", "hosts":
		return FamilyDevice, nil
	}
	return "", ErrUnknownFamily.WithDetails(s)
}
