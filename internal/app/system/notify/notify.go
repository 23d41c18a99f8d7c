// Package notify fans notification email out to club followers.
//
// Every method runs after the triggering write has already been committed.
// Send failures are collected into a Report, logged, and audit-recorded;
// they are never returned as errors, so a dead SMTP relay cannot fail a
// publish or a registration.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/thevashuydv/unihub/internal/app/system/auditlog"
	"github.com/thevashuydv/unihub/internal/app/system/mailer"
	"github.com/thevashuydv/unihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Sender delivers a single email. *mailer.Mailer satisfies this; tests
// substitute fakes that fail on demand.
type Sender interface {
	Send(mailer.Email) error
}

// FollowerSource lists the follow records for one club. Satisfied by the
// follows store.
type FollowerSource interface {
	ListByClub(ctx context.Context, clubID primitive.ObjectID) ([]models.Follow, error)
}

// Failure records one recipient that could not be delivered to.
type Failure struct {
	Email  string
	Reason string
}

// Report is the outcome of one notification batch.
type Report struct {
	BatchID   string
	Kind      string
	Succeeded []string
	Failed    []Failure
}

// Notification batch kinds.
const (
	KindNewEvent     = "new_event"
	KindAnnouncement = "announcement"
	KindRegistration = "registration_confirmation"
)

// Notifier sends best-effort notification email for club activity.
type Notifier struct {
	sender  Sender
	follows FollowerSource
	audit   *auditlog.Logger
	log     *zap.Logger
}

// New creates a Notifier. audit may be nil (no-op).
func New(sender Sender, follows FollowerSource, audit *auditlog.Logger, log *zap.Logger) *Notifier {
	return &Notifier{sender: sender, follows: follows, audit: audit, log: log}
}

// displayDate formats an event timestamp for email bodies.
func displayDate(t time.Time) string {
	return t.Format("Jan 2, 2006 3:04 PM")
}

// EventPublished notifies every follower of the event's club about a newly
// published event.
func (n *Notifier) EventPublished(ctx context.Context, event models.Event) Report {
	return n.fanOut(ctx, KindNewEvent, event.ClubID, func(f models.Follow) mailer.Email {
		e := mailer.BuildNewEventEmail(mailer.NewEventEmailData{
			UserName:    f.UserName,
			EventName:   event.Name,
			EventDate:   displayDate(event.EventDate),
			Location:    event.Location,
			Description: event.Description,
			ClubName:    event.ClubName,
		})
		e.To = f.UserEmail
		e.ToName = f.UserName
		return e
	})
}

// AnnouncementPublished notifies every follower of the club about a new
// announcement. Edits do not re-notify; only creation calls this.
func (n *Notifier) AnnouncementPublished(ctx context.Context, a models.Announcement) Report {
	return n.fanOut(ctx, KindAnnouncement, a.ClubID, func(f models.Follow) mailer.Email {
		e := mailer.BuildAnnouncementEmail(mailer.AnnouncementEmailData{
			UserName: f.UserName,
			Title:    a.Title,
			Content:  a.Content,
			ClubName: a.ClubName,
		})
		e.To = f.UserEmail
		e.ToName = f.UserName
		return e
	})
}

// RegistrationConfirmed sends a confirmation to the single user who just
// registered. Like the fan-out paths, failure is recorded but not returned.
func (n *Notifier) RegistrationConfirmed(ctx context.Context, event models.Event, userEmail, userName string) Report {
	report := Report{BatchID: uuid.NewString(), Kind: KindRegistration}

	e := mailer.BuildRegistrationEmail(mailer.RegistrationEmailData{
		UserName:  userName,
		EventName: event.Name,
		EventDate: displayDate(event.EventDate),
		Location:  event.Location,
		ClubName:  event.ClubName,
	})
	e.To = userEmail
	e.ToName = userName

	if err := n.sender.Send(e); err != nil {
		report.Failed = append(report.Failed, Failure{Email: userEmail, Reason: err.Error()})
		n.log.Warn("registration confirmation email failed",
			zap.String("batch_id", report.BatchID),
			zap.String("event_id", event.ID.Hex()),
			zap.String("recipient", userEmail),
			zap.Error(err))
	} else {
		report.Succeeded = append(report.Succeeded, userEmail)
	}

	n.record(ctx, report, event.ClubID)
	return report
}

// fanOut resolves the club's followers and sends one message per follower.
// A follower lookup failure aborts the batch (there is nobody to send to)
// but still only logs; per-recipient failures never stop the loop.
func (n *Notifier) fanOut(ctx context.Context, kind string, clubID primitive.ObjectID, build func(models.Follow) mailer.Email) Report {
	report := Report{BatchID: uuid.NewString(), Kind: kind}

	followers, err := n.follows.ListByClub(ctx, clubID)
	if err != nil {
		n.log.Error("follower lookup failed, notification batch skipped",
			zap.String("batch_id", report.BatchID),
			zap.String("kind", kind),
			zap.String("club_id", clubID.Hex()),
			zap.Error(err))
		return report
	}
	if len(followers) == 0 {
		return report
	}

	for _, f := range followers {
		if err := n.sender.Send(build(f)); err != nil {
			report.Failed = append(report.Failed, Failure{Email: f.UserEmail, Reason: err.Error()})
			n.log.Warn("notification email failed",
				zap.String("batch_id", report.BatchID),
				zap.String("kind", kind),
				zap.String("recipient", f.UserEmail),
				zap.Error(err))
			continue
		}
		report.Succeeded = append(report.Succeeded, f.UserEmail)
	}

	n.record(ctx, report, clubID)
	return report
}

func (n *Notifier) record(ctx context.Context, report Report, clubID primitive.ObjectID) {
	n.log.Info("notification batch finished",
		zap.String("batch_id", report.BatchID),
		zap.String("kind", report.Kind),
		zap.String("club_id", clubID.Hex()),
		zap.Int("sent", len(report.Succeeded)),
		zap.Int("failed", len(report.Failed)))
	n.audit.NotificationBatch(ctx, report.BatchID, report.Kind, clubID, len(report.Succeeded), len(report.Failed))
}
