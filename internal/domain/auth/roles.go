package auth

const (
	RoleAdmin    = "ADMIN"
	RoleTeamlead = "TEAMLEAD"
	RoleEmployee = "EMPLOYEE"
)

// CanManage reports whether a role may administrate plans, workers and
// wage settings. Workflow-level ownership rules stay with the services.
func CanManage(role string) bool {
	return role == RoleAdmin || role == RoleTeamlead
}
