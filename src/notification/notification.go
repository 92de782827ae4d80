// Package notification shows short user-facing messages outside the
// overlay: update progress results and fatal startup errors.
package notification

import "log"

// Notifier shows message boxes without blocking the caller.
type Notifier struct {
	// Title prefixes every caption.
	Title string
}

// Info shows an informational message.
func (n Notifier) Info(title, msg string) {
	log.Printf("notification: %s: %s", title, msg)
	show(n.caption(title), msg, false)
}

// Error shows an error message.
func (n Notifier) Error(title, msg string) {
	log.Printf("notification: error: %s: %s", title, msg)
	show(n.caption(title), msg, true)
}

func (n Notifier) caption(title string) string {
	if n.Title == "" || n.Title == title {
		return title
	}
	return n.Title + " - " + title
}
