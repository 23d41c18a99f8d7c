// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/thevashuydv/unihub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Admin controls logging for club admin actions (event/announcement CRUD).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
	// Notify controls logging for notification batch outcomes.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Notify string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}

	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserEmail != "" {
		fields = append(fields, zap.String("user_email", event.UserEmail))
	}
	if event.ActorEmail != "" {
		fields = append(fields, zap.String("actor_email", event.ActorEmail))
	}
	if event.ClubID != nil {
		fields = append(fields, zap.String("club_id", event.ClubID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategoryNotify:
		setting = l.config.Notify
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// SignupSuccess logs a successful account creation.
func (l *Logger) SignupSuccess(ctx context.Context, r *http.Request, email, role string, clubID *primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignupSuccess,
		UserEmail: email,
		ClubID:    clubID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"role": role,
		},
	})
}

// SigninSuccess logs a successful sign-in.
func (l *Logger) SigninSuccess(ctx context.Context, r *http.Request, email, role string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSigninSuccess,
		UserEmail: email,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"role": role,
		},
	})
}

// SigninFailedUserNotFound logs a failed sign-in for an unknown address.
func (l *Logger) SigninFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventSigninFailedNotFound,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user not found",
		Details: map[string]string{
			"attempted_email": attemptedEmail,
		},
	})
}

// SigninFailedWrongPassword logs a failed sign-in with a bad password.
func (l *Logger) SigninFailedWrongPassword(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventSigninFailedWrongPass,
		UserEmail:     email,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong password",
	})
}

// Signout logs a user sign-out.
func (l *Logger) Signout(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignout,
		UserEmail: email,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Club Admin Events ---

// ClubCreated logs the creation of a club during club admin signup.
func (l *Logger) ClubCreated(ctx context.Context, r *http.Request, actorEmail string, clubID primitive.ObjectID, clubName string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventClubCreated,
		ActorEmail: actorEmail,
		ClubID:     &clubID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details: map[string]string{
			"club_name": clubName,
		},
	})
}

// ClubUpdated logs when a club admin edits the club profile.
func (l *Logger) ClubUpdated(ctx context.Context, r *http.Request, actorEmail string, clubID primitive.ObjectID, clubName string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventClubUpdated,
		ActorEmail: actorEmail,
		ClubID:     &clubID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details: map[string]string{
			"club_name": clubName,
		},
	})
}

// EventCreated logs when a club admin publishes an event.
func (l *Logger) EventCreated(ctx context.Context, r *http.Request, actorEmail string, clubID, eventID primitive.ObjectID, eventName string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventEventCreated,
		ActorEmail: actorEmail,
		ClubID:     &clubID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details: map[string]string{
			"event_id":   eventID.Hex(),
			"event_name": eventName,
		},
	})
}

// EventUpdated logs when a club admin edits an event.
func (l *Logger) EventUpdated(ctx context.Context, r *http.Request, actorEmail string, clubID, eventID primitive.ObjectID, eventName string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventEventUpdated,
		ActorEmail: actorEmail,
		ClubID:     &clubID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details: map[string]string{
			"event_id":   eventID.Hex(),
			"event_name": eventName,
		},
	})
}

// EventDeleted logs when a club admin deletes an event, including how many
// dependent records the cascade removed.
func (l *Logger) EventDeleted(ctx context.Context, r *http.Request, actorEmail string, clubID, eventID primitive.ObjectID, eventName string, registrationsRemoved int64) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventEventDeleted,
		ActorEmail: actorEmail,
		ClubID:     &clubID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details: map[string]string{
			"event_id":              eventID.Hex(),
			"event_name":            eventName,
			"registrations_removed": int64ToString(registrationsRemoved),
		},
	})
}

// AnnouncementCreated logs when a club admin posts an announcement.
func (l *Logger) AnnouncementCreated(ctx context.Context, r *http.Request, actorEmail string, clubID, announcementID primitive.ObjectID, title string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventAnnouncementCreated,
		ActorEmail: actorEmail,
		ClubID:     &clubID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details: map[string]string{
			"announcement_id": announcementID.Hex(),
			"title":           title,
		},
	})
}

// AnnouncementUpdated logs when a club admin edits an announcement.
func (l *Logger) AnnouncementUpdated(ctx context.Context, r *http.Request, actorEmail string, clubID, announcementID primitive.ObjectID, title string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventAnnouncementUpdated,
		ActorEmail: actorEmail,
		ClubID:     &clubID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details: map[string]string{
			"announcement_id": announcementID.Hex(),
			"title":           title,
		},
	})
}

// AnnouncementDeleted logs when a club admin deletes an announcement.
func (l *Logger) AnnouncementDeleted(ctx context.Context, r *http.Request, actorEmail string, clubID, announcementID primitive.ObjectID, title string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventAnnouncementDeleted,
		ActorEmail: actorEmail,
		ClubID:     &clubID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details: map[string]string{
			"announcement_id": announcementID.Hex(),
			"title":           title,
		},
	})
}

// --- Notification Events ---

// NotificationBatch logs the outcome of one email fan-out batch. Success is
// true when every recipient was delivered to; partial and total failures are
// recorded with counts but never surfaced to the publishing request.
func (l *Logger) NotificationBatch(ctx context.Context, batchID, kind string, clubID primitive.ObjectID, sent, failed int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryNotify,
		EventType: audit.EventNotificationBatch,
		ClubID:    &clubID,
		Success:   failed == 0,
		Details: map[string]string{
			"batch_id": batchID,
			"kind":     kind,
			"sent":     intToString(sent),
			"failed":   intToString(failed),
		},
	})
}

// --- Helper functions ---

func intToString(i int) string {
	return strconv.Itoa(i)
}

func int64ToString(i int64) string {
	return strconv.FormatInt(i, 10)
}
