package services

import "fmt"

// Subject truncation limits for the two rendered bodies
const (
	NotificationSubjectLimit = 50
	SMSSubjectLimit          = 60
)

var urgencyIcons = map[string]string{
	"low":    "📋",
	"normal": "📨",
	"medium": "⚠️",
	"high":   "🚨",
}

var urgencyLabels = map[string]string{
	"low":    "Low",
	"normal": "Normal",
	"medium": "Medium",
	"high":   "Urgent",
}

// UrgencyIcon returns the display icon for an urgency level.
// Unrecognized levels fall back to the normal icon.
func UrgencyIcon(urgency string) string {
	if icon, ok := urgencyIcons[urgency]; ok {
		return icon
	}
	return urgencyIcons["normal"]
}

// UrgencyLabel returns the display label for an urgency level.
// Unrecognized levels fall back to the normal label.
func UrgencyLabel(urgency string) string {
	if label, ok := urgencyLabels[urgency]; ok {
		return label
	}
	return urgencyLabels["normal"]
}

// Truncate shortens s to at most limit runes. Truncated subjects end with
// "..." and the marker counts toward the limit, so the output never
// exceeds limit runes total.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// ComposeNotificationText builds the internal notification body for a
// message: icon, urgency label, sender name and quoted subject (truncated
// to NotificationSubjectLimit).
func ComposeNotificationText(urgency, senderName, subject string) string {
	return fmt.Sprintf("%s [%s] Message from %s: %q",
		UrgencyIcon(urgency), UrgencyLabel(urgency), senderName,
		Truncate(subject, NotificationSubjectLimit))
}

// ComposeSMSText builds the SMS body for a message: lot reference, icon,
// sender name and subject (truncated to SMSSubjectLimit).
func ComposeSMSText(lotID uint, urgency, senderName, subject string) string {
	return fmt.Sprintf("[Lot %d] %s Message from %s: %s",
		lotID, UrgencyIcon(urgency), senderName,
		Truncate(subject, SMSSubjectLimit))
}
