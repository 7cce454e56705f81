package scheduler

import "errors"

// Permission mirrors the notification-permission state machine:
// Default -> Granted or Default -> Denied. Denied is sticky; only an
// out-of-band change (the user unblocking the bot) can flip it back,
// which the periodic re-check picks up.
type Permission int

const (
	PermissionDefault Permission = iota
	PermissionGranted
	PermissionDenied
)

var ErrPermissionDenied = errors.New("notifications are blocked for this chat")

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

func parsePermission(s string) Permission {
	switch s {
	case "granted":
		return PermissionGranted
	case "denied":
		return PermissionDenied
	default:
		return PermissionDefault
	}
}
