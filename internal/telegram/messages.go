package telegram

const welcomeMessage = `🎯 <b>DAMit! — Daily Accountability, Messaged</b>

You're in. One questionnaire a day keeps the excuses away.

/log - answer today's questions
/today - today's DAM
/stats - your trends
/missing - days you skipped this week
/remind - daily reminder settings
/share - public dashboard link
/avatar - dashboard avatar
/help - all commands`

const helpMessage = `<b>Commands</b>

/log - answer today's questionnaire
/cancel - abort an in-flight questionnaire
/today - show today's DAM
/missing - unlogged days in the last 7
/stats [day|week|month|all] - score summary
/stats FROM TO - custom range (max 30 days)
/remind on|off|HH:MM - daily reminder
/share [days]|off|status - public dashboard
/avatar - pick a dashboard avatar
/delete YYYY-MM-DD - remove a day's log

Ratings: 👍 1 · 🌗 0.5 · 🤏 0.25 · 👎 0 · 💀 -1`

func (b *Bot) shareURL(token string) string {
	return b.baseURL + "/api/public/" + token + "/logs"
}
