package utils

// Avatar choices offered for the public dashboard profile.
var Avatars = []string{"💪", "🔥", "🌱", "🏆", "🦁", "🐢", "🚀", "🌞", "🧗", "🏃"}

const DefaultAvatar = "💪"

func IsAvatar(s string) bool {
	for _, a := range Avatars {
		if s == a {
			return true
		}
	}
	return false
}
