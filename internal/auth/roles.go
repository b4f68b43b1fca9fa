package auth

// Back-office roles the engine recognizes on its HTTP surface. The full
// role hierarchy lives in the user directory; these are the ones that may
// touch pause/resume and sweep operations.
const (
	RoleTechnician         = "technician"
	RoleBranchManager      = "branch_manager"
	RoleMaintenanceManager = "maintenance_manager"
	RoleAdmin              = "admin"
)
