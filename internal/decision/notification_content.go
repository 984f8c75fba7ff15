package decision

import (
	"fmt"

	"github.com/anchorhq/anchor/internal/domain"
)

var notificationSubjects = map[domain.NotificationTone]string{
	domain.ToneSupportive:  "You're doing great - here's a gentle nudge",
	domain.ToneEncouraging: "Keep up the momentum!",
	domain.ToneGentle:      "A friendly reminder from Anchor",
}

// NotificationContent renders the subject and body for a notification
// decision. Unknown tones fall back to supportive.
func NotificationContent(d *domain.Decision) (subject, content string) {
	tone := domain.ToneSupportive
	if d.Parameters != nil && d.Parameters.NotificationTone != "" {
		tone = d.Parameters.NotificationTone
	}

	switch tone {
	case domain.ToneEncouraging:
		content = fmt.Sprintf("Hello!\n\n%s\n\nYou're building something meaningful. Every small step counts!\n\nKeep going,\nAnchor", d.Reasoning)
	case domain.ToneGentle:
		content = fmt.Sprintf("Hi,\n\n%s\n\nTake it easy on yourself. We're here to support your journey.\n\nWith care,\nAnchor", d.Reasoning)
	default:
		tone = domain.ToneSupportive
		content = fmt.Sprintf("Hi there,\n\n%s\n\nRemember, progress isn't about perfection - it's about showing up consistently. You've got this!\n\nBest,\nThe Anchor Team", d.Reasoning)
	}
	return notificationSubjects[tone], content
}
