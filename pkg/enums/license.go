package enums

import "fmt"

// LicenseType maps to the license_type column. FREE is the only tier offered today.
type LicenseType string

const (
	LicenseTypeFree LicenseType = "FREE"
)

var validLicenseTypes = []LicenseType{
	LicenseTypeFree,
}

// String implements fmt.Stringer.
func (l LicenseType) String() string {
	return string(l)
}

// IsValid reports whether the value matches a known license type.
func (l LicenseType) IsValid() bool {
	for _, candidate := range validLicenseTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLicenseType converts raw input into LicenseType.
func ParseLicenseType(value string) (LicenseType, error) {
	for _, candidate := range validLicenseTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid license type %q", value)
}
