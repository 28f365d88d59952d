// Package tenancy derives the data-access scope of an authenticated caller.
package tenancy

import (
	"github.com/google/uuid"

	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
)

// Tenant identifies the License a row belongs to. Either field may be zero
// when the owning row only records the other one.
type Tenant struct {
	LicenseID   uint
	LicenseUUID uuid.UUID
}

// Scope constrains which rows an operation may see or modify. Admins carry an
// unrestricted scope; users are confined to their own License.
type Scope struct {
	Unrestricted bool
	LicenseID    uint
	LicenseUUID  uuid.UUID
	UserUUID     uuid.UUID
	IsMaster     bool
}

// AdminScope is the scope of backoffice staff.
func AdminScope() Scope {
	return Scope{Unrestricted: true}
}

// Tenant returns the caller's own tenant; zero for admins.
func (s Scope) Tenant() Tenant {
	return Tenant{LicenseID: s.LicenseID, LicenseUUID: s.LicenseUUID}
}

// LicenseFilter returns the license id list queries must be restricted to.
// ok is false for an unrestricted scope.
func (s Scope) LicenseFilter() (licenseID uint, ok bool) {
	if s.Unrestricted {
		return 0, false
	}
	return s.LicenseID, true
}

// Owns reports whether t is the caller's tenant.
func (s Scope) Owns(t Tenant) bool {
	if s.Unrestricted {
		return true
	}
	if t.LicenseID != 0 && t.LicenseID == s.LicenseID {
		return true
	}
	return t.LicenseUUID != uuid.Nil && t.LicenseUUID == s.LicenseUUID
}

// Manages reports whether the caller may administer rows of t: admins always,
// users only as master admin of that tenant.
func (s Scope) Manages(t Tenant) bool {
	if s.Unrestricted {
		return true
	}
	return s.IsMaster && s.Owns(t)
}

// CheckRead hides rows outside the scope behind a not-found error.
func (s Scope) CheckRead(t Tenant, resource string) error {
	if s.Owns(t) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, resource+" not found")
}

// CheckWrite rejects writes to rows outside the scope.
func (s Scope) CheckWrite(t Tenant, resource string) error {
	if s.Owns(t) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, resource+" belongs to another team")
}

// CheckManage rejects callers that are not allowed to administer t.
func (s Scope) CheckManage(t Tenant, resource string) error {
	if err := s.CheckWrite(t, resource); err != nil {
		return err
	}
	if !s.Manages(t) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "master admin required")
	}
	return nil
}
