package schema

// EmployeeTable represents the 'staff.employee' table
type EmployeeTable struct {
	Table          string
	ID             string
	PublicID       string
	FirstName      string
	MiddleName     string
	LastName       string
	FullName       string
	Email          string
	HashedPassword string
	Role           string
	CreatedAt      string
}

// Employee is the schema definition for staff.employee
var Employee = EmployeeTable{
	Table:          "staff.employee",
	ID:             "id",
	PublicID:       "publicid",
	FirstName:      "firstname",
	MiddleName:     "middlename",
	LastName:       "lastname",
	FullName:       "fullname",
	Email:          "email",
	HashedPassword: "hashedpassword",
	Role:           "role",
	CreatedAt:      "createdat",
}

// Columns returns all standard column names in scan order
func (t EmployeeTable) Columns() []string {
	return []string{
		t.ID, t.PublicID, t.FirstName, t.MiddleName, t.LastName,
		t.FullName, t.Email, t.HashedPassword, t.Role, t.CreatedAt,
	}
}

// EmailConstraint is the unique constraint guarding employee emails.
const EmailConstraint = "employee_email_key"
