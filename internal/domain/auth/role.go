package auth

type Role string

const (
	// RoleWorker clocks in and out of their own shifts.
	RoleWorker Role = "worker"
	// RoleBusiness schedules shifts and settles hours for its workers.
	RoleBusiness Role = "business"
	// RoleAdmin is operations staff with full access.
	RoleAdmin Role = "admin"
)
