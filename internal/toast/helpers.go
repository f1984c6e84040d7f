package toast

import (
	"fmt"
	"strings"
)

// Success shows a success toast
func (q *Queue) Success(message, title string) string {
	return q.Show(Notice{Message: message, Kind: KindSuccess, Title: orDefault(title, "Success!"), Duration: DurationSuccess})
}

// Error shows an error toast with optional detail lines
func (q *Queue) Error(message, title string, details ...string) string {
	return q.Show(Notice{Message: message, Kind: KindError, Title: orDefault(title, "Error"), Details: details, Duration: DurationError})
}

// Info shows an info toast
func (q *Queue) Info(message, title string) string {
	return q.Show(Notice{Message: message, Kind: KindInfo, Title: orDefault(title, "Info"), Duration: DurationInfo})
}

// Warning shows a warning toast
func (q *Queue) Warning(message, title string) string {
	return q.Show(Notice{Message: message, Kind: KindWarning, Title: orDefault(title, "Warning"), Duration: DurationWarning})
}

// ValidationError lists backend validation failures; it stays up longer
func (q *Queue) ValidationError(errs []string, title string) string {
	return q.Show(Notice{
		Message:  "Please correct the following errors:",
		Kind:     KindError,
		Title:    orDefault(title, "Validation Error"),
		Details:  errs,
		Duration: DurationValidation,
	})
}

// NetworkError reports a request that never reached the server
func (q *Queue) NetworkError() string {
	return q.Show(Notice{
		Message:  "Unable to connect to the server. Please check your internet connection and try again.",
		Kind:     KindError,
		Title:    "Connection Error",
		Duration: DurationError,
	})
}

// PermissionError reports a forbidden action
func (q *Queue) PermissionError(action string) string {
	message := "You don't have sufficient permissions for this action"
	if action != "" {
		message = fmt.Sprintf("You don't have permission to %s", strings.ToLower(action))
	}
	return q.Show(Notice{Message: message, Kind: KindWarning, Title: "Permission Denied", Duration: DurationWarning})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
