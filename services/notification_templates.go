package services

import (
	"fmt"
	"html/template"
	"strings"
)

// Notification events and their message templates. Placeholders use the
// {{name}} form and are filled by applyTemplatePlaceholders.
const (
	EventSubmitted       = "submitted"
	EventReceived        = "received"
	EventApproved        = "approved"
	EventRejected        = "rejected"
	EventListingApproval = "listing_approval"
)

var notificationTemplates = map[string]string{
	EventSubmitted:       "Your {{kind}} application for {{pet_name}} has been submitted and is awaiting the owner's review.",
	EventReceived:        "You have a new {{kind}} application for {{pet_name}} to review.",
	EventApproved:        "Congratulations! Your {{kind}} application for {{pet_name}} has been approved.",
	EventRejected:        "We're sorry, your {{kind}} application for {{pet_name}} was not approved.",
	EventListingApproval: "Your listing for {{pet_name}} has been approved and is now visible to adopters.",
}

// emailSubjects are static so they can be derived from a stored notification type.
var emailSubjects = map[string]string{
	EventSubmitted:       "Application received",
	EventReceived:        "New application to review",
	EventApproved:        "Application approved",
	EventRejected:        "Application update",
	EventListingApproval: "Listing approved",
}

func applyTemplatePlaceholders(text string, data map[string]string) string {
	result := text
	for key, value := range data {
		placeholder := "{{" + key + "}}"
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

func renderMessage(event string, data map[string]string) string {
	tmpl, ok := notificationTemplates[event]
	if !ok {
		return event
	}
	return applyTemplatePlaceholders(tmpl, data)
}

// eventOf recovers the template event from a stored notification type.
func eventOf(notificationType string) string {
	for _, ev := range []string{EventSubmitted, EventReceived, EventApproved, EventRejected} {
		if strings.HasSuffix(notificationType, "_"+ev) {
			return ev
		}
	}
	return notificationType
}

func buildFormalEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "there"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Hi %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}
