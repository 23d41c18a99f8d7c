package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// RegistrationEmailData holds data for the registration confirmation email.
type RegistrationEmailData struct {
	UserName  string
	EventName string
	EventDate string // pre-formatted for display
	Location  string
	ClubName  string
}

// BuildRegistrationEmail creates a registration confirmation with both HTML
// and text bodies. To/ToName are set by the caller.
func BuildRegistrationEmail(data RegistrationEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("Registration Confirmed: %s", data.EventName),
		TextBody: buildRegistrationText(data),
		HTMLBody: execTemplate(registrationTmpl, data),
	}
}

func buildRegistrationText(data RegistrationEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hello %s,\n\n", data.UserName)
	buf.WriteString("Your registration for the following event has been confirmed:\n\n")
	fmt.Fprintf(&buf, "%s\nDate & Time: %s\nLocation: %s\nOrganized by: %s\n\n", data.EventName, data.EventDate, data.Location, data.ClubName)
	buf.WriteString("We look forward to seeing you there!\n\n")
	buf.WriteString("This is an automated message from UniHub. Please do not reply to this email.\n")
	return buf.String()
}

// NewEventEmailData holds data for the new-event notification sent to a
// club's followers.
type NewEventEmailData struct {
	UserName    string
	EventName   string
	EventDate   string
	Location    string
	Description string
	ClubName    string
}

// BuildNewEventEmail creates a new-event notification for one follower.
func BuildNewEventEmail(data NewEventEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("New Event: %s by %s", data.EventName, data.ClubName),
		TextBody: buildNewEventText(data),
		HTMLBody: execTemplate(newEventTmpl, data),
	}
}

func buildNewEventText(data NewEventEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hello %s,\n\n", data.UserName)
	fmt.Fprintf(&buf, "%s has posted a new event that might interest you:\n\n", data.ClubName)
	fmt.Fprintf(&buf, "%s\nDate & Time: %s\nLocation: %s\nDescription: %s\n\n", data.EventName, data.EventDate, data.Location, data.Description)
	fmt.Fprintf(&buf, "You're receiving this because you follow %s on UniHub.\n", data.ClubName)
	buf.WriteString("To stop receiving these notifications, unfollow the club.\n")
	return buf.String()
}

// AnnouncementEmailData holds data for the announcement notification sent to
// a club's followers.
type AnnouncementEmailData struct {
	UserName string
	Title    string
	Content  string
	ClubName string
}

// BuildAnnouncementEmail creates an announcement notification for one
// follower. Content has already been sanitized at the store boundary, so it
// is rendered as HTML.
func BuildAnnouncementEmail(data AnnouncementEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("Announcement from %s: %s", data.ClubName, data.Title),
		TextBody: buildAnnouncementText(data),
		HTMLBody: execTemplate(announcementTmpl, data),
	}
}

func buildAnnouncementText(data AnnouncementEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hello %s,\n\n", data.UserName)
	fmt.Fprintf(&buf, "%s has posted a new announcement:\n\n", data.ClubName)
	fmt.Fprintf(&buf, "%s\n\n%s\n\n", data.Title, data.Content)
	fmt.Fprintf(&buf, "You're receiving this because you follow %s on UniHub.\n", data.ClubName)
	return buf.String()
}

func execTemplate(t *template.Template, data interface{}) string {
	var buf bytes.Buffer
	_ = t.Execute(&buf, data)
	return buf.String()
}

var (
	registrationTmpl = template.Must(template.New("registration").Parse(registrationHTMLTemplate))
	newEventTmpl     = template.Must(template.New("new_event").Parse(newEventHTMLTemplate))
	announcementTmpl = template.Must(template.New("announcement").Parse(announcementHTMLTemplate))
)

const registrationHTMLTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
  <h2 style="color: #646cff;">Event Registration Confirmation</h2>
  <p>Hello {{.UserName}},</p>
  <p>Your registration for the following event has been confirmed:</p>

  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #646cff;">{{.EventName}}</h3>
    <p><strong>Date &amp; Time:</strong> {{.EventDate}}</p>
    <p><strong>Location:</strong> {{.Location}}</p>
    <p><strong>Organized by:</strong> {{.ClubName}}</p>
  </div>

  <p>We look forward to seeing you there!</p>
  <p>If you have any questions, please contact the event organizers.</p>

  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; font-size: 12px; color: #777;">
    <p>This is an automated message from UniHub. Please do not reply to this email.</p>
  </div>
</div>`

const newEventHTMLTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
  <h2 style="color: #646cff;">New Event Announcement</h2>
  <p>Hello {{.UserName}},</p>
  <p>{{.ClubName}} has posted a new event that might interest you:</p>

  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #646cff;">{{.EventName}}</h3>
    <p><strong>Date &amp; Time:</strong> {{.EventDate}}</p>
    <p><strong>Location:</strong> {{.Location}}</p>
    <p><strong>Description:</strong> {{.Description}}</p>
  </div>

  <p>You're receiving this because you follow {{.ClubName}}.</p>
  <p>We hope to see you there!</p>

  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; font-size: 12px; color: #777;">
    <p>This is an automated message from UniHub. Please do not reply to this email.</p>
    <p>To stop receiving these notifications, unfollow the club on UniHub.</p>
  </div>
</div>`

const announcementHTMLTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
  <h2 style="color: #646cff;">Club Announcement</h2>
  <p>Hello {{.UserName}},</p>
  <p>{{.ClubName}} has posted a new announcement:</p>

  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #646cff;">{{.Title}}</h3>
    <div>{{.Content}}</div>
  </div>

  <p>You're receiving this because you follow {{.ClubName}}.</p>

  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; font-size: 12px; color: #777;">
    <p>This is an automated message from UniHub. Please do not reply to this email.</p>
  </div>
</div>`
