package domain

// Caller is the resolved identity behind a request. It is a closed set:
// Admin or TenantMember. Authorization code switches on the concrete type.
type Caller interface {
	UserID() string
	isCaller()
}

// Admin is an MSP operator with access to every tenant.
type Admin struct {
	ID string
}

// TenantMember is a client user scoped to a single tenant. TenantID may be
// empty for a misconfigured account; such a caller can access no tenant.
type TenantMember struct {
	ID       string
	TenantID string
}

func (a Admin) UserID() string        { return a.ID }
func (m TenantMember) UserID() string { return m.ID }

func (Admin) isCaller()        {}
func (TenantMember) isCaller() {}

// CallerFor builds the Caller variant matching the user's stored role.
func CallerFor(u *User) Caller {
	if u.Role == RoleAdmin {
		return Admin{ID: u.ID}
	}
	return TenantMember{ID: u.ID, TenantID: u.ClientID}
}

// RoleOf reports the role of a caller.
func RoleOf(c Caller) Role {
	switch c.(type) {
	case Admin:
		return RoleAdmin
	case TenantMember:
		return RoleClient
	default:
		return ""
	}
}
