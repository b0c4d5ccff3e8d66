package model

// KPIRole is the audience a KPI definition targets.
type KPIRole string

const (
	KPIRoleEmployee     KPIRole = "Employee"
	KPIRoleProjectHead  KPIRole = "Project Head"
	KPIRoleOrganization KPIRole = "Organization"
)

var KPIRoles = []KPIRole{KPIRoleEmployee, KPIRoleProjectHead, KPIRoleOrganization}

func (r KPIRole) Valid() bool {
	switch r {
	case KPIRoleEmployee, KPIRoleProjectHead, KPIRoleOrganization:
		return true
	}
	return false
}

type KPIStatus string

const (
	KPIActive   KPIStatus = "Active"
	KPIInactive KPIStatus = "Inactive"
)

var KPIStatuses = []KPIStatus{KPIActive, KPIInactive}

func (s KPIStatus) Valid() bool {
	return s == KPIActive || s == KPIInactive
}

// KPI is a key performance indicator definition managed by admins.
type KPI struct {
	OwnerID     uint  `gorm:"primaryKey;autoIncrement:false"`
	ID          int64 `gorm:"primaryKey;autoIncrement:false"`
	Name        string
	Description string
	Role        KPIRole
	Status      KPIStatus
	Position    int
}
