package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scholaris/internal/authz"
	"scholaris/internal/caching"
	"scholaris/internal/common"
	"scholaris/internal/config"
	"scholaris/internal/handlers"
	"scholaris/internal/jobs/background"
	"scholaris/internal/logger"
	"scholaris/internal/middleware"
	"scholaris/internal/repositories"
	"scholaris/internal/services"
	"scholaris/internal/storage"
	"scholaris/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database.URL, 20)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	store, err := storage.NewMinioStore(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}
	if err := store.EnsureBucketExists(ctx, cfg.Minio.Bucket); err != nil {
		log.Fatal().Err(err).Str("bucket", cfg.Minio.Bucket).Msg("failed to ensure bucket")
	}

	// *pgxpool.Pool satisfies repositories.DB directly.
	var db repositories.DB = pool

	// Repositories
	userRepo := repositories.NewUserRepo(db)
	tenantRepo := repositories.NewTenantRepo(db)
	studentRepo := repositories.NewStudentRepo(db)
	guardianRepo := repositories.NewGuardianRepo(db)
	attendanceRepo := repositories.NewAttendanceRepo(db)
	staffAttRepo := repositories.NewStaffAttendanceRepo(db)
	invoiceRepo := repositories.NewInvoiceRepo(db)
	paymentRepo := repositories.NewPaymentRepo(db)
	installmentRepo := repositories.NewInstallmentRepo(db)
	applicationRepo := repositories.NewApplicationRepo(db)
	disciplineRepo := repositories.NewDisciplineRepo(db)
	announcementRepo := repositories.NewAnnouncementRepo(db)
	eventRepo := repositories.NewEventRepo(db)
	notificationRepo := repositories.NewNotificationRepo(db)
	communityRepo := repositories.NewCommunityRepo(db)
	consentRepo := repositories.NewConsentRepo(db)
	roomRepo := repositories.NewRoomRepo(db)
	bookingRepo := repositories.NewBookingRepo(db)
	visitorRepo := repositories.NewVisitorRepo(db)
	libraryRepo := repositories.NewLibraryRepo(db)
	siteRepo := repositories.NewSiteRepo(db)
	formRepo := repositories.NewFormRepo(db)
	teacherRepo := repositories.NewTeacherRepo(db)
	contractRepo := repositories.NewContractRepo(db)
	alumniRepo := repositories.NewAlumniRepo(db)
	classRepo := repositories.NewClassRepo(db)
	scheduleRepo := repositories.NewScheduleRepo(db)
	curriculumRepo := repositories.NewCurriculumRepo(db)
	transcriptRepo := repositories.NewTranscriptRepo(db)
	achievementRepo := repositories.NewAchievementRepo(db)
	auditRepo := repositories.NewAuditLogRepo(db)

	// Services
	auditSvc := services.NewAuditService(auditRepo, log)
	authSvc := services.NewAuthService(userRepo, tenantRepo, cacheSvc,
		cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, log)
	tenantSvc := services.NewTenantService(tenantRepo, cacheSvc, auditSvc, log)
	userSvc := services.NewUserService(userRepo, auditSvc, log)
	studentSvc := services.NewStudentService(studentRepo, guardianRepo, alumniRepo, auditSvc, log)
	attendanceSvc := services.NewAttendanceService(attendanceRepo, staffAttRepo, log)
	billingSvc := services.NewBillingService(db, invoiceRepo, paymentRepo, installmentRepo, tenantRepo, auditSvc, log)
	smsSvc := services.NewSMSService(services.SMSConfig{
		Provider:  cfg.SMS.Provider,
		AccountID: cfg.SMS.AccountID,
		APIKey:    cfg.SMS.APIKey,
		Sender:    cfg.SMS.Sender,
	}, log)
	if !smsSvc.Configured() {
		log.Warn().Msg("sms gateway not configured, outbound messages are no-ops")
	}
	admissionsSvc := services.NewAdmissionsService(applicationRepo, studentSvc, auditSvc, smsSvc, log)
	disciplineSvc := services.NewDisciplineService(disciplineRepo, auditSvc, log)
	engagementSvc := services.NewEngagementService(announcementRepo, eventRepo, notificationRepo, communityRepo, consentRepo, log)
	facilitiesSvc := services.NewFacilitiesService(roomRepo, bookingRepo, visitorRepo, auditSvc, log)
	librarySvc := services.NewLibraryService(db, libraryRepo, log)
	academicsSvc := services.NewAcademicsService(classRepo, scheduleRepo, curriculumRepo, transcriptRepo, achievementRepo, log)
	staffSvc := services.NewStaffService(teacherRepo, contractRepo, alumniRepo, auditSvc, log)
	siteSvc := services.NewSiteService(siteRepo, formRepo, cacheSvc, log)
	exportSvc := services.NewExportService(studentRepo, classRepo, attendanceRepo, invoiceRepo, teacherRepo, staffAttRepo, log)
	docsSvc := services.NewDocsService(tenantRepo, invoiceRepo, paymentRepo, studentRepo, store, cfg.Minio.Bucket, log)
	copilotSvc := services.NewCopilotService(services.CopilotConfig{
		APIURL: cfg.Copilot.APIURL,
		APIKey: cfg.Copilot.APIKey,
		Model:  cfg.Copilot.Model,
	}, studentRepo, disciplineRepo, attendanceSvc, log)
	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc)
	userHandlers := handlers.NewUserHandlers(userSvc)
	studentHandlers := handlers.NewStudentHandlers(studentSvc)
	attendanceHandlers := handlers.NewAttendanceHandlers(attendanceSvc, studentSvc)
	billingHandlers := handlers.NewBillingHandlers(billingSvc, studentSvc)
	admissionsHandlers := handlers.NewAdmissionsHandlers(admissionsSvc)
	disciplineHandlers := handlers.NewDisciplineHandlers(disciplineSvc)
	engagementHandlers := handlers.NewEngagementHandlers(engagementSvc, studentSvc)
	facilitiesHandlers := handlers.NewFacilitiesHandlers(facilitiesSvc)
	libraryHandlers := handlers.NewLibraryHandlers(librarySvc)
	academicsHandlers := handlers.NewAcademicsHandlers(academicsSvc)
	staffHandlers := handlers.NewStaffHandlers(staffSvc)
	siteHandlers := handlers.NewSiteHandlers(siteSvc)
	exportHandlers := handlers.NewExportHandlers(exportSvc)
	docsHandlers := handlers.NewDocsHandlers(docsSvc, studentSvc, billingSvc)
	copilotHandlers := handlers.NewCopilotHandlers(copilotSvc, studentSvc)
	auditHandlers := handlers.NewAuditHandlers(auditSvc)
	webhookHandlers := handlers.NewWebhookHandlers(billingSvc, tenantSvc, cfg.Webhook.StripeSecret, log)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler, err := background.NewJobScheduler(tenantRepo, billingSvc, librarySvc, engagementSvc, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop job scheduler")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Validator = common.NewRequestValidator()

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	v1 := e.Group("/v1")

	// Authentication (no JWT)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)

	// Public school-site routes, resolved by subdomain and rate limited.
	public := v1.Group("/public",
		middleware.ResolveTenant(tenantSvc),
		middleware.RateLimit(cacheSvc, 60, time.Minute))
	public.GET("/pages/:slug", siteHandlers.PublicPage)
	public.GET("/forms/:id", siteHandlers.PublicForm)
	public.POST("/forms/:id/submissions", siteHandlers.SubmitForm)
	public.POST("/applications", admissionsHandlers.SubmitPublic)

	// Payment gateway callbacks authenticate by signature, not JWT.
	v1.POST("/webhooks/payments", webhookHandlers.PaymentWebhook)

	protected := v1.Group("", middleware.JWT([]byte(cfg.JWT.Secret)))

	protected.POST("/auth/logout", authHandlers.Logout)
	protected.POST("/auth/2fa/enroll", authHandlers.Enroll2FA)
	protected.POST("/auth/2fa/activate", authHandlers.Activate2FA)
	protected.GET("/me", userHandlers.Me)

	// Account management
	protected.POST("/users", userHandlers.CreateUser,
		middleware.Require(authz.ResourceUsers, authz.ActionCreate))
	protected.GET("/users", userHandlers.ListUsers,
		middleware.Require(authz.ResourceUsers, authz.ActionList))
	protected.GET("/users/:id", userHandlers.GetUser,
		middleware.Require(authz.ResourceUsers, authz.ActionRead))
	protected.PUT("/users/:id", userHandlers.UpdateUser,
		middleware.Require(authz.ResourceUsers, authz.ActionUpdate))
	protected.DELETE("/users/:id", userHandlers.DeactivateUser,
		middleware.Require(authz.ResourceUsers, authz.ActionDelete))

	// Tenant administration
	protected.GET("/tenant", tenantHandlers.GetTenant,
		middleware.Require(authz.ResourceTenantSettings, authz.ActionRead))
	protected.GET("/tenant/settings", tenantHandlers.GetSettings,
		middleware.Require(authz.ResourceTenantSettings, authz.ActionRead))
	protected.PUT("/tenant/settings", tenantHandlers.UpdateSettings,
		middleware.Require(authz.ResourceTenantSettings, authz.ActionUpdate))
	protected.GET("/platform/tenants", tenantHandlers.ListTenants)

	// Students and guardians
	protected.POST("/students", studentHandlers.CreateStudent,
		middleware.Require(authz.ResourceStudents, authz.ActionCreate))
	protected.GET("/students", studentHandlers.ListStudents,
		middleware.Require(authz.ResourceStudents, authz.ActionList))
	protected.GET("/students/my-children", studentHandlers.MyChildren)
	protected.GET("/students/:id", studentHandlers.GetStudent)
	protected.PUT("/students/:id", studentHandlers.UpdateStudent,
		middleware.Require(authz.ResourceStudents, authz.ActionUpdate))
	protected.DELETE("/students/:id", studentHandlers.DeactivateStudent,
		middleware.Require(authz.ResourceStudents, authz.ActionDelete))
	protected.POST("/students/:id/graduate", studentHandlers.GraduateStudent,
		middleware.Require(authz.ResourceStudents, authz.ActionUpdate))
	protected.POST("/guardians", studentHandlers.CreateGuardian,
		middleware.Require(authz.ResourceGuardians, authz.ActionCreate))
	protected.POST("/students/:id/guardians", studentHandlers.LinkGuardian,
		middleware.Require(authz.ResourceGuardians, authz.ActionUpdate))
	protected.DELETE("/students/:id/guardians/:guardianID", studentHandlers.UnlinkGuardian,
		middleware.Require(authz.ResourceGuardians, authz.ActionUpdate))
	protected.GET("/students/:id/guardians", studentHandlers.ListGuardians,
		middleware.Require(authz.ResourceGuardians, authz.ActionList))

	// Attendance
	protected.POST("/attendance", attendanceHandlers.Mark,
		middleware.Require(authz.ResourceAttendance, authz.ActionCreate))
	protected.POST("/attendance/class/:classID", attendanceHandlers.MarkClass,
		middleware.Require(authz.ResourceAttendance, authz.ActionCreate))
	protected.GET("/attendance", attendanceHandlers.List)
	protected.GET("/attendance/summary/:studentID", attendanceHandlers.Summary)
	protected.POST("/staff-attendance/clock-in", attendanceHandlers.ClockIn)
	protected.GET("/staff-attendance", attendanceHandlers.ListStaff,
		middleware.Require(authz.ResourceStaffAttend, authz.ActionList))
	protected.GET("/staff-attendance/me", attendanceHandlers.MyStaffAttendance)

	// Billing
	protected.POST("/invoices", billingHandlers.CreateInvoice,
		middleware.Require(authz.ResourceInvoices, authz.ActionCreate))
	protected.GET("/invoices", billingHandlers.ListInvoices,
		middleware.Require(authz.ResourceInvoices, authz.ActionList))
	protected.GET("/invoices/:id", billingHandlers.GetInvoice,
		middleware.Require(authz.ResourceInvoices, authz.ActionRead))
	protected.POST("/invoices/:id/cancel", billingHandlers.CancelInvoice,
		middleware.Require(authz.ResourceInvoices, authz.ActionUpdate))
	protected.POST("/invoices/:id/payments", billingHandlers.RecordPayment,
		middleware.Require(authz.ResourcePayments, authz.ActionCreate))
	protected.GET("/invoices/:id/payments", billingHandlers.ListPayments,
		middleware.Require(authz.ResourcePayments, authz.ActionList))
	protected.GET("/invoices/:id/payments/:paymentID/receipt", docsHandlers.Receipt)
	protected.POST("/installment-plans", billingHandlers.CreateInstallmentPlan,
		middleware.Require(authz.ResourceInstallments, authz.ActionCreate))
	protected.GET("/installment-plans", billingHandlers.ListInstallmentPlans,
		middleware.Require(authz.ResourceInstallments, authz.ActionList))
	protected.GET("/installment-plans/:id", billingHandlers.GetInstallmentPlan,
		middleware.Require(authz.ResourceInstallments, authz.ActionRead))
	protected.POST("/installment-plans/:id/installments/:installmentID/pay", billingHandlers.PayInstallment,
		middleware.Require(authz.ResourcePayments, authz.ActionCreate))

	// Admissions
	protected.POST("/applications", admissionsHandlers.Submit,
		middleware.Require(authz.ResourceApplications, authz.ActionCreate))
	protected.GET("/applications", admissionsHandlers.List,
		middleware.Require(authz.ResourceApplications, authz.ActionList))
	protected.GET("/applications/:id", admissionsHandlers.Get,
		middleware.Require(authz.ResourceApplications, authz.ActionRead))
	protected.POST("/applications/:id/transition", admissionsHandlers.Transition,
		middleware.Require(authz.ResourceApplications, authz.ActionReview))

	// Discipline
	protected.POST("/discipline", disciplineHandlers.Create,
		middleware.Require(authz.ResourceDiscipline, authz.ActionCreate))
	protected.GET("/discipline", disciplineHandlers.List,
		middleware.Require(authz.ResourceDiscipline, authz.ActionList))
	protected.GET("/discipline/:id", disciplineHandlers.Get,
		middleware.Require(authz.ResourceDiscipline, authz.ActionRead))
	protected.POST("/discipline/:id/resolve", disciplineHandlers.Resolve,
		middleware.Require(authz.ResourceDiscipline, authz.ActionReview))

	// Engagement
	protected.POST("/announcements", engagementHandlers.PostAnnouncement,
		middleware.Require(authz.ResourceAnnouncements, authz.ActionCreate))
	protected.GET("/announcements", engagementHandlers.ListAnnouncements)
	protected.PUT("/announcements/:id", engagementHandlers.UpdateAnnouncement,
		middleware.Require(authz.ResourceAnnouncements, authz.ActionUpdate))
	protected.DELETE("/announcements/:id", engagementHandlers.DeleteAnnouncement,
		middleware.Require(authz.ResourceAnnouncements, authz.ActionDelete))
	protected.POST("/events", engagementHandlers.CreateEvent,
		middleware.Require(authz.ResourceEvents, authz.ActionCreate))
	protected.GET("/events", engagementHandlers.ListEvents)
	protected.PUT("/events/:id", engagementHandlers.UpdateEvent,
		middleware.Require(authz.ResourceEvents, authz.ActionUpdate))
	protected.DELETE("/events/:id", engagementHandlers.DeleteEvent,
		middleware.Require(authz.ResourceEvents, authz.ActionDelete))
	protected.GET("/notifications", engagementHandlers.ListNotifications)
	protected.POST("/notifications/:id/read", engagementHandlers.MarkNotificationRead)
	protected.POST("/community/posts", engagementHandlers.CreatePost,
		middleware.Require(authz.ResourceCommunity, authz.ActionCreate))
	protected.GET("/community/posts", engagementHandlers.ListPosts)
	protected.DELETE("/community/posts/:id", engagementHandlers.DeletePost)
	protected.POST("/consent-forms", engagementHandlers.CreateConsentForm,
		middleware.Require(authz.ResourceConsentForms, authz.ActionCreate))
	protected.GET("/consent-forms", engagementHandlers.ListConsentForms)
	protected.POST("/consent-forms/:id/respond", engagementHandlers.RespondToConsent)
	protected.GET("/consent-forms/:id/responses", engagementHandlers.ListConsentResponses,
		middleware.Require(authz.ResourceConsentForms, authz.ActionList))

	// Facilities
	protected.POST("/rooms", facilitiesHandlers.CreateRoom,
		middleware.Require(authz.ResourceRooms, authz.ActionCreate))
	protected.GET("/rooms", facilitiesHandlers.ListRooms)
	protected.PUT("/rooms/:id", facilitiesHandlers.UpdateRoom,
		middleware.Require(authz.ResourceRooms, authz.ActionUpdate))
	protected.DELETE("/rooms/:id", facilitiesHandlers.DeleteRoom,
		middleware.Require(authz.ResourceRooms, authz.ActionDelete))
	protected.POST("/rooms/:id/bookings", facilitiesHandlers.RequestBooking,
		middleware.Require(authz.ResourceRoomBookings, authz.ActionCreate))
	protected.GET("/rooms/:id/bookings", facilitiesHandlers.ListRoomBookings)
	protected.GET("/bookings/mine", facilitiesHandlers.MyBookings)
	protected.POST("/bookings/:id/decide", facilitiesHandlers.DecideBooking,
		middleware.Require(authz.ResourceRoomBookings, authz.ActionReview))
	protected.POST("/bookings/:id/cancel", facilitiesHandlers.CancelBooking)
	protected.POST("/visitors", facilitiesHandlers.RegisterVisitor,
		middleware.Require(authz.ResourceVisitors, authz.ActionCreate))
	protected.GET("/visitors", facilitiesHandlers.ListVisitors,
		middleware.Require(authz.ResourceVisitors, authz.ActionList))
	protected.POST("/visitors/:id/check-in", facilitiesHandlers.CheckInVisitor,
		middleware.Require(authz.ResourceVisitors, authz.ActionUpdate))
	protected.POST("/visitors/check-ins/:recordID/check-out", facilitiesHandlers.CheckOutVisitor,
		middleware.Require(authz.ResourceVisitors, authz.ActionUpdate))
	protected.GET("/visitors/check-ins/open", facilitiesHandlers.ListOpenCheckIns,
		middleware.Require(authz.ResourceVisitors, authz.ActionList))

	// Library
	protected.POST("/library/books", libraryHandlers.AddBook,
		middleware.Require(authz.ResourceLibrary, authz.ActionCreate))
	protected.GET("/library/books", libraryHandlers.SearchBooks)
	protected.GET("/library/books/:id", libraryHandlers.GetBook)
	protected.PUT("/library/books/:id", libraryHandlers.UpdateBook,
		middleware.Require(authz.ResourceLibrary, authz.ActionUpdate))
	protected.DELETE("/library/books/:id", libraryHandlers.RemoveBook,
		middleware.Require(authz.ResourceLibrary, authz.ActionDelete))
	protected.POST("/library/loans", libraryHandlers.IssueBook,
		middleware.Require(authz.ResourceLibrary, authz.ActionReview))
	protected.POST("/library/loans/:id/return", libraryHandlers.ReturnBook,
		middleware.Require(authz.ResourceLibrary, authz.ActionReview))
	protected.GET("/library/loans", libraryHandlers.ListLoans,
		middleware.Require(authz.ResourceLibrary, authz.ActionList))

	// Academics
	protected.POST("/classes", academicsHandlers.CreateClass,
		middleware.Require(authz.ResourceClasses, authz.ActionCreate))
	protected.GET("/classes", academicsHandlers.ListClasses)
	protected.GET("/classes/:id", academicsHandlers.GetClass)
	protected.PUT("/classes/:id", academicsHandlers.UpdateClass,
		middleware.Require(authz.ResourceClasses, authz.ActionUpdate))
	protected.DELETE("/classes/:id", academicsHandlers.DeactivateClass,
		middleware.Require(authz.ResourceClasses, authz.ActionDelete))
	protected.GET("/classes/:id/timetable", academicsHandlers.ClassTimetable)
	protected.POST("/schedules", academicsHandlers.CreateSchedule,
		middleware.Require(authz.ResourceSchedules, authz.ActionCreate))
	protected.PUT("/schedules/:id", academicsHandlers.UpdateSchedule,
		middleware.Require(authz.ResourceSchedules, authz.ActionUpdate))
	protected.DELETE("/schedules/:id", academicsHandlers.DeleteSchedule,
		middleware.Require(authz.ResourceSchedules, authz.ActionDelete))
	protected.GET("/teachers/:id/timetable", academicsHandlers.TeacherTimetable)
	protected.POST("/curriculum/maps", academicsHandlers.CreateCurriculumMap,
		middleware.Require(authz.ResourceCurriculum, authz.ActionCreate))
	protected.GET("/curriculum/maps", academicsHandlers.ListCurriculumMaps)
	protected.GET("/curriculum/maps/:id", academicsHandlers.GetCurriculumMap)
	protected.DELETE("/curriculum/maps/:id", academicsHandlers.DeleteCurriculumMap,
		middleware.Require(authz.ResourceCurriculum, authz.ActionDelete))
	protected.POST("/curriculum/maps/:id/units", academicsHandlers.AddCurriculumUnit,
		middleware.Require(authz.ResourceCurriculum, authz.ActionUpdate))
	protected.POST("/curriculum/units/:id/topics", academicsHandlers.AddCurriculumTopic,
		middleware.Require(authz.ResourceCurriculum, authz.ActionUpdate))
	protected.POST("/transcripts", academicsHandlers.AddTranscriptEntry,
		middleware.Require(authz.ResourceTranscripts, authz.ActionCreate))
	protected.GET("/students/:id/transcript", academicsHandlers.StudentTranscript)
	protected.POST("/achievements", academicsHandlers.AwardAchievement,
		middleware.Require(authz.ResourceAchievements, authz.ActionCreate))
	protected.DELETE("/achievements/:id", academicsHandlers.RevokeAchievement,
		middleware.Require(authz.ResourceAchievements, authz.ActionDelete))
	protected.GET("/students/:id/achievements", academicsHandlers.StudentAchievements)

	// Staff
	protected.POST("/teachers", staffHandlers.CreateTeacher,
		middleware.Require(authz.ResourceTeachers, authz.ActionCreate))
	protected.GET("/teachers", staffHandlers.ListTeachers,
		middleware.Require(authz.ResourceTeachers, authz.ActionList))
	protected.GET("/teachers/:id", staffHandlers.GetTeacher,
		middleware.Require(authz.ResourceTeachers, authz.ActionRead))
	protected.PUT("/teachers/:id", staffHandlers.UpdateTeacher,
		middleware.Require(authz.ResourceTeachers, authz.ActionUpdate))
	protected.DELETE("/teachers/:id", staffHandlers.DeactivateTeacher,
		middleware.Require(authz.ResourceTeachers, authz.ActionDelete))
	protected.POST("/contracts", staffHandlers.CreateContract,
		middleware.Require(authz.ResourceContracts, authz.ActionCreate))
	protected.GET("/contracts", staffHandlers.ListContracts,
		middleware.Require(authz.ResourceContracts, authz.ActionList))
	protected.GET("/contracts/:id", staffHandlers.GetContract,
		middleware.Require(authz.ResourceContracts, authz.ActionRead))
	protected.PUT("/contracts/:id", staffHandlers.UpdateContract,
		middleware.Require(authz.ResourceContracts, authz.ActionUpdate))
	protected.POST("/contracts/:id/terminate", staffHandlers.TerminateContract,
		middleware.Require(authz.ResourceContracts, authz.ActionReview))
	protected.POST("/alumni", staffHandlers.RegisterAlumni,
		middleware.Require(authz.ResourceAlumni, authz.ActionCreate))
	protected.GET("/alumni", staffHandlers.ListAlumni,
		middleware.Require(authz.ResourceAlumni, authz.ActionList))
	protected.GET("/alumni/:id", staffHandlers.GetAlumni,
		middleware.Require(authz.ResourceAlumni, authz.ActionRead))
	protected.PUT("/alumni/:id", staffHandlers.UpdateAlumni,
		middleware.Require(authz.ResourceAlumni, authz.ActionUpdate))

	// Public site administration
	protected.POST("/site/pages", siteHandlers.CreatePage,
		middleware.Require(authz.ResourceSitePages, authz.ActionCreate))
	protected.GET("/site/pages", siteHandlers.ListPages,
		middleware.Require(authz.ResourceSitePages, authz.ActionList))
	protected.PUT("/site/pages/:id", siteHandlers.UpdatePage,
		middleware.Require(authz.ResourceSitePages, authz.ActionUpdate))
	protected.DELETE("/site/pages/:id", siteHandlers.DeletePage,
		middleware.Require(authz.ResourceSitePages, authz.ActionDelete))
	protected.POST("/site/forms", siteHandlers.CreateForm,
		middleware.Require(authz.ResourceForms, authz.ActionCreate))
	protected.GET("/site/forms", siteHandlers.ListForms,
		middleware.Require(authz.ResourceForms, authz.ActionList))
	protected.GET("/site/forms/:id", siteHandlers.GetForm,
		middleware.Require(authz.ResourceForms, authz.ActionRead))
	protected.PUT("/site/forms/:id", siteHandlers.UpdateForm,
		middleware.Require(authz.ResourceForms, authz.ActionUpdate))
	protected.GET("/site/forms/:id/submissions", siteHandlers.ListSubmissions,
		middleware.Require(authz.ResourceForms, authz.ActionList))

	// Documents, exports, insights, audit
	protected.POST("/documents/certificates", docsHandlers.Certificate,
		middleware.Require(authz.ResourceStudents, authz.ActionRead))
	protected.GET("/exports/:type", exportHandlers.Export,
		middleware.Require(authz.ResourceExport, authz.ActionRead))
	protected.GET("/copilot/students/:id/summary", copilotHandlers.StudentSummary,
		middleware.Require(authz.ResourceCopilot, authz.ActionRead))
	protected.GET("/audit-logs", auditHandlers.List,
		middleware.Require(authz.ResourceAuditLogs, authz.ActionList))

	// Serve until interrupted, then drain.
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
