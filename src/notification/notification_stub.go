//go:build !windows

package notification

import "log"

func show(caption, text string, isError bool) {}

// ShowBlockingError logs the error; there is no dialog outside Windows.
func ShowBlockingError(title, message string) {
	log.Printf("%s: %s", title, message)
}
