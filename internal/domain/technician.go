package domain

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
	RoleViewer     Role = "viewer"
)

// Technician is a dashboard user tickets can be assigned to.
type Technician struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

func (t *Technician) CanWork() bool {
	return t.Role == RoleAdmin || t.Role == RoleTechnician
}
