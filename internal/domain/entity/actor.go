package entity

// Actor roles. The role decides which supply permissions the actor holds.
const (
	RoleStaff         = "staff"
	RoleSupplyOfficer = "supply_officer"
	RoleAdministrator = "administrator"
)

// Actor is an office staff member known to the actor directory. The workflow
// only records actor IDs; names and positions are resolved here for slip
// signatories and for authorization.
type Actor struct {
	ID       string
	Name     string
	Position string
	Role     string
}
