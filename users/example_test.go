package users_test

import (
	"fmt"

	"github.com/jrsteele09/hifz-auth/users"
)

// A super admin holds one unscoped membership and can reach every center.
func ExampleMemberships_CanAccessTenant() {
	superAdmin := users.Memberships{{AccountID: "super-admin-001", Role: users.RoleSuperAdmin}}
	teacher := users.Memberships{{AccountID: "teacher-001", Role: users.RoleTeacher, TenantID: "center-a"}}

	fmt.Println(superAdmin.CanAccessTenant("center-b"))
	fmt.Println(teacher.CanAccessTenant("center-a"))
	fmt.Println(teacher.CanAccessTenant("center-b"))
	// Output:
	// true
	// true
	// false
}
