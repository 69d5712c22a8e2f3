package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow_AdminBypass(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RoleTenantAdmin} {
		for _, resource := range []Resource{ResourceStudents, ResourceInvoices, ResourceAuditLogs} {
			decision := Allow(role, resource, ActionDelete)
			assert.True(t, decision.Allowed, "role %s should bypass the rules for %s", role, resource)
		}
	}
}

func TestAllow_PolicyTable(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		resource Resource
		action   Action
		allowed  bool
	}{
		{"teacher lists students", RoleTeacher, ResourceStudents, ActionList, true},
		{"teacher cannot update tenant settings", RoleTeacher, ResourceTenantSettings, ActionUpdate, false},
		{"tenant admin updates tenant settings", RoleTenantAdmin, ResourceTenantSettings, ActionUpdate, true},
		{"teacher cannot review applications", RoleTeacher, ResourceApplications, ActionReview, false},
		{"hr cannot review applications", RoleHR, ResourceApplications, ActionReview, false},
		{"tenant admin reviews applications", RoleTenantAdmin, ResourceApplications, ActionReview, true},
		{"teacher cannot delete students", RoleTeacher, ResourceStudents, ActionDelete, false},
		{"teacher marks attendance", RoleTeacher, ResourceAttendance, ActionCreate, true},
		{"finance creates invoices", RoleFinance, ResourceInvoices, ActionCreate, true},
		{"teacher cannot create invoices", RoleTeacher, ResourceInvoices, ActionCreate, false},
		{"finance records payments", RoleFinance, ResourcePayments, ActionCreate, true},
		{"hr manages contracts", RoleHR, ResourceContracts, ActionCreate, true},
		{"finance cannot delete contracts", RoleFinance, ResourceContracts, ActionDelete, false},
		{"teacher issues library books", RoleTeacher, ResourceLibrary, ActionReview, true},
		{"hod reviews discipline", RoleHOD, ResourceDiscipline, ActionReview, true},
		{"teacher cannot review discipline", RoleTeacher, ResourceDiscipline, ActionReview, false},
		{"guardian cannot list students", RoleGuardian, ResourceStudents, ActionList, false},
		{"student cannot read audit logs", RoleStudent, ResourceAuditLogs, ActionList, false},
		{"unknown role denied", Role("JANITOR"), ResourceStudents, ActionList, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Allow(tt.role, tt.resource, tt.action)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.NotEmpty(t, decision.Reason)
			}
		})
	}
}
