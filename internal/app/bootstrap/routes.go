// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	accountsfeature "github.com/thevashuydv/unihub/internal/app/features/accounts"
	announcementsfeature "github.com/thevashuydv/unihub/internal/app/features/announcements"
	auditlogfeature "github.com/thevashuydv/unihub/internal/app/features/auditlog"
	clubsfeature "github.com/thevashuydv/unihub/internal/app/features/clubs"
	discussionsfeature "github.com/thevashuydv/unihub/internal/app/features/discussions"
	eventsfeature "github.com/thevashuydv/unihub/internal/app/features/events"
	feedbackfeature "github.com/thevashuydv/unihub/internal/app/features/feedback"
	healthfeature "github.com/thevashuydv/unihub/internal/app/features/health"
	profilefeature "github.com/thevashuydv/unihub/internal/app/features/profile"
	"github.com/thevashuydv/unihub/internal/app/store/audit"
	followstore "github.com/thevashuydv/unihub/internal/app/store/follows"
	"github.com/thevashuydv/unihub/internal/app/system/auditlog"
	"github.com/thevashuydv/unihub/internal/app/system/auth"
	"github.com/thevashuydv/unihub/internal/app/system/mailer"
	"github.com/thevashuydv/unihub/internal/app/system/notify"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. UniHub wires the shared services first
// (audit logger, SMTP mailer, notifier) and then mounts one feature router
// per API area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Admin:  appCfg.AuditLogAdmin,
		Notify: appCfg.AuditLogNotify,
	})

	smtp := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	})
	notifier := notify.New(smtp, followstore.New(deps.MongoClient, db), auditLogger, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Accounts and sessions
	accountsHandler := accountsfeature.NewHandler(db, auditLogger, logger)
	r.Mount("/auth", accountsfeature.Routes(accountsHandler))

	// Club directory and follows
	clubsHandler := clubsfeature.NewHandler(db, auditLogger, logger)
	r.Mount("/clubs", clubsfeature.Routes(clubsHandler))

	// Events, registrations, attendee exports
	eventsHandler := eventsfeature.NewHandler(db, auditLogger, notifier, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler))

	// Announcements and the followed-clubs feed
	announcementsHandler := announcementsfeature.NewHandler(db, auditLogger, notifier, logger)
	r.Mount("/announcements", announcementsfeature.Routes(announcementsHandler))

	// Post-event feedback
	feedbackHandler := feedbackfeature.NewHandler(db, auditLogger, logger)
	r.Mount("/feedback", feedbackfeature.Routes(feedbackHandler))

	// Event Q&A
	discussionsHandler := discussionsfeature.NewHandler(db, auditLogger, logger)
	r.Mount("/discussions", discussionsfeature.Routes(discussionsHandler))

	// Profiles
	profileHandler := profilefeature.NewHandler(db, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler))

	// Club admin audit view
	auditHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler))

	return r, nil
}
