package authz

import "fmt"

// Role is one of the fixed platform roles carried in the JWT.
type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleTenantAdmin Role = "TENANT_ADMIN"
	RoleTeacher     Role = "TEACHER"
	RoleHOD         Role = "HOD"
	RoleHR          Role = "HR"
	RoleFinance     Role = "FINANCE"
	RoleGuardian    Role = "GUARDIAN"
	RoleStudent     Role = "STUDENT"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleSuperAdmin, RoleTenantAdmin, RoleTeacher, RoleHOD, RoleHR, RoleFinance, RoleGuardian, RoleStudent:
		return true
	}
	return false
}

// Resource identifies a module guarded by the policy.
type Resource string

const (
	ResourceUsers          Resource = "users"
	ResourceTenantSettings Resource = "tenant_settings"
	ResourceStudents       Resource = "students"
	ResourceGuardians      Resource = "guardians"
	ResourceTeachers       Resource = "teachers"
	ResourceClasses        Resource = "classes"
	ResourceSchedules      Resource = "schedules"
	ResourceAttendance     Resource = "attendance"
	ResourceStaffAttend    Resource = "staff_attendance"
	ResourceInvoices       Resource = "invoices"
	ResourcePayments       Resource = "payments"
	ResourceInstallments   Resource = "installment_plans"
	ResourceContracts      Resource = "contracts"
	ResourceApplications   Resource = "applications"
	ResourceDiscipline     Resource = "discipline_records"
	ResourceAnnouncements  Resource = "announcements"
	ResourceEvents         Resource = "events"
	ResourceConsentForms   Resource = "consent_forms"
	ResourceRooms          Resource = "rooms"
	ResourceRoomBookings   Resource = "room_bookings"
	ResourceNotifications  Resource = "notifications"
	ResourceCommunity      Resource = "community_posts"
	ResourceCurriculum     Resource = "curriculum"
	ResourceTranscripts    Resource = "transcripts"
	ResourceAchievements   Resource = "achievements"
	ResourceAlumni         Resource = "alumni"
	ResourceLibrary        Resource = "library"
	ResourceVisitors       Resource = "visitors"
	ResourceSitePages      Resource = "site_pages"
	ResourceForms          Resource = "forms"
	ResourceExport         Resource = "export"
	ResourceAuditLogs      Resource = "audit_logs"
	ResourceCopilot        Resource = "copilot"
)

// Action is the operation class being attempted on a resource.
type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionReview Action = "review" // approvals, resolutions, status transitions
)

// Decision is the result of a policy evaluation. Reason is always set so
// denials surface why access was refused.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true, Reason: "allowed"}
}

func deny(role Role, resource Resource, action Action) Decision {
	return Decision{
		Allowed: false,
		Reason:  fmt.Sprintf("role %s may not %s %s", role, action, resource),
	}
}

// rules maps resource → action → roles allowed beyond the admin roles.
// SUPER_ADMIN and TENANT_ADMIN pass every check and are omitted here.
var rules = map[Resource]map[Action][]Role{
	ResourceUsers: {
		ActionList: {RoleHR},
		ActionRead: {RoleHR},
	},
	ResourceStudents: {
		ActionList: {RoleTeacher, RoleHOD, RoleHR, RoleFinance},
		ActionRead: {RoleTeacher, RoleHOD, RoleHR, RoleFinance, RoleGuardian, RoleStudent},
	},
	ResourceGuardians: {
		ActionList: {RoleTeacher, RoleHOD, RoleHR},
		ActionRead: {RoleTeacher, RoleHOD, RoleHR, RoleGuardian},
	},
	ResourceTeachers: {
		ActionList:   {RoleHOD, RoleHR},
		ActionRead:   {RoleHOD, RoleHR},
		ActionCreate: {RoleHR},
		ActionUpdate: {RoleHR},
		ActionDelete: {RoleHR},
	},
	ResourceClasses: {
		ActionList: {RoleTeacher, RoleHOD, RoleHR, RoleGuardian, RoleStudent},
		ActionRead: {RoleTeacher, RoleHOD, RoleHR, RoleGuardian, RoleStudent},
	},
	ResourceSchedules: {
		ActionList:   {RoleTeacher, RoleHOD, RoleGuardian, RoleStudent},
		ActionRead:   {RoleTeacher, RoleHOD, RoleGuardian, RoleStudent},
		ActionCreate: {RoleHOD},
		ActionUpdate: {RoleHOD},
		ActionDelete: {RoleHOD},
	},
	ResourceAttendance: {
		ActionList:   {RoleTeacher, RoleHOD, RoleGuardian, RoleStudent},
		ActionRead:   {RoleTeacher, RoleHOD, RoleGuardian, RoleStudent},
		ActionCreate: {RoleTeacher, RoleHOD},
		ActionUpdate: {RoleTeacher, RoleHOD},
	},
	ResourceStaffAttend: {
		ActionList:   {RoleHR, RoleHOD},
		ActionRead:   {RoleHR, RoleHOD},
		ActionCreate: {RoleHR},
		ActionUpdate: {RoleHR},
	},
	ResourceInvoices: {
		ActionList:   {RoleFinance, RoleGuardian},
		ActionRead:   {RoleFinance, RoleGuardian},
		ActionCreate: {RoleFinance},
		ActionUpdate: {RoleFinance},
		ActionReview: {RoleFinance},
	},
	ResourcePayments: {
		ActionList:   {RoleFinance, RoleGuardian},
		ActionRead:   {RoleFinance, RoleGuardian},
		ActionCreate: {RoleFinance},
	},
	ResourceInstallments: {
		ActionList:   {RoleFinance, RoleGuardian},
		ActionRead:   {RoleFinance, RoleGuardian},
		ActionCreate: {RoleFinance},
		ActionUpdate: {RoleFinance},
	},
	ResourceContracts: {
		ActionList:   {RoleHR, RoleFinance},
		ActionRead:   {RoleHR, RoleFinance},
		ActionCreate: {RoleHR, RoleFinance},
		ActionUpdate: {RoleHR, RoleFinance},
		ActionDelete: {RoleHR},
	},
	ResourceApplications: {
		ActionList:   {RoleHR},
		ActionRead:   {RoleHR},
		ActionReview: {}, // admissions review is admin-only
	},
	ResourceDiscipline: {
		ActionList:   {RoleTeacher, RoleHOD},
		ActionRead:   {RoleTeacher, RoleHOD, RoleGuardian},
		ActionCreate: {RoleTeacher, RoleHOD},
		ActionReview: {RoleHOD},
	},
	ResourceAnnouncements: {
		ActionList: {RoleTeacher, RoleHOD, RoleHR, RoleFinance, RoleGuardian, RoleStudent},
		ActionRead: {RoleTeacher, RoleHOD, RoleHR, RoleFinance, RoleGuardian, RoleStudent},
	},
	ResourceEvents: {
		ActionList:   {RoleTeacher, RoleHOD, RoleHR, RoleFinance, RoleGuardian, RoleStudent},
		ActionRead:   {RoleTeacher, RoleHOD, RoleHR, RoleFinance, RoleGuardian, RoleStudent},
		ActionCreate: {RoleTeacher, RoleHOD},
		ActionUpdate: {RoleTeacher, RoleHOD},
	},
	ResourceConsentForms: {
		ActionList:   {RoleTeacher, RoleHOD, RoleGuardian},
		ActionRead:   {RoleTeacher, RoleHOD, RoleGuardian},
		ActionUpdate: {RoleGuardian}, // a guardian's update is their response
	},
	ResourceRooms: {
		ActionList: {RoleTeacher, RoleHOD, RoleHR},
		ActionRead: {RoleTeacher, RoleHOD, RoleHR},
	},
	ResourceRoomBookings: {
		ActionList:   {RoleTeacher, RoleHOD, RoleHR},
		ActionRead:   {RoleTeacher, RoleHOD, RoleHR},
		ActionCreate: {RoleTeacher, RoleHOD, RoleHR},
		ActionReview: {RoleHOD},
		ActionDelete: {RoleTeacher, RoleHOD, RoleHR},
	},
	ResourceNotifications: {
		ActionList:   {RoleTeacher, RoleHOD, RoleHR, RoleFinance, RoleGuardian, RoleStudent},
		ActionUpdate: {RoleTeacher, RoleHOD, RoleHR, RoleFinance, RoleGuardian, RoleStudent},
	},
	ResourceCommunity: {
		ActionList:   {RoleTeacher, RoleHOD, RoleHR, RoleFinance, RoleGuardian, RoleStudent},
		ActionRead:   {RoleTeacher, RoleHOD, RoleHR, RoleFinance, RoleGuardian, RoleStudent},
		ActionCreate: {RoleTeacher, RoleHOD, RoleHR, RoleFinance, RoleGuardian, RoleStudent},
		ActionDelete: {},
	},
	ResourceCurriculum: {
		ActionList:   {RoleTeacher, RoleHOD, RoleGuardian, RoleStudent},
		ActionRead:   {RoleTeacher, RoleHOD, RoleGuardian, RoleStudent},
		ActionCreate: {RoleTeacher, RoleHOD},
		ActionUpdate: {RoleTeacher, RoleHOD},
		ActionDelete: {RoleHOD},
	},
	ResourceTranscripts: {
		ActionList:   {RoleTeacher, RoleHOD, RoleGuardian, RoleStudent},
		ActionRead:   {RoleTeacher, RoleHOD, RoleGuardian, RoleStudent},
		ActionCreate: {RoleTeacher, RoleHOD},
	},
	ResourceAchievements: {
		ActionList:   {RoleTeacher, RoleHOD, RoleGuardian, RoleStudent},
		ActionRead:   {RoleTeacher, RoleHOD, RoleGuardian, RoleStudent},
		ActionCreate: {RoleTeacher, RoleHOD},
	},
	ResourceAlumni: {
		ActionList: {RoleHR},
		ActionRead: {RoleHR},
	},
	ResourceLibrary: {
		ActionList:   {RoleTeacher, RoleHOD, RoleHR, RoleGuardian, RoleStudent},
		ActionRead:   {RoleTeacher, RoleHOD, RoleHR, RoleGuardian, RoleStudent},
		ActionReview: {RoleTeacher, RoleHOD}, // issue/return
	},
	ResourceVisitors: {
		ActionList:   {RoleHR},
		ActionRead:   {RoleHR},
		ActionCreate: {RoleHR},
		ActionUpdate: {RoleHR},
	},
	ResourceSitePages: {},
	ResourceForms:     {},
	ResourceExport: {
		ActionRead: {RoleHR, RoleFinance},
	},
	ResourceAuditLogs: {},
	ResourceCopilot: {
		ActionRead: {RoleTeacher, RoleHOD},
	},
}

// Allow evaluates the policy for one (role, resource, action) triple. It is
// the single authorization decision point for the whole API.
func Allow(role Role, resource Resource, action Action) Decision {
	if !ValidRole(string(role)) {
		return Decision{Allowed: false, Reason: fmt.Sprintf("unknown role %q", role)}
	}

	// Admin roles pass every check; tenant scoping still applies at the
	// repository layer.
	if role == RoleSuperAdmin || role == RoleTenantAdmin {
		return allow()
	}

	actions, ok := rules[resource]
	if !ok {
		return deny(role, resource, action)
	}
	roles, ok := actions[action]
	if !ok {
		return deny(role, resource, action)
	}
	for _, r := range roles {
		if r == role {
			return allow()
		}
	}
	return deny(role, resource, action)
}
