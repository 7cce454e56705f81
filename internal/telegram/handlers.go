package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/dates"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/scheduler"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/stats"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/utils"
)

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	username := msg.Chat.UserName
	if username == "" && msg.From != nil {
		username = msg.From.UserName
	}
	if username == "" {
		username = msg.Chat.FirstName
	}

	if err := b.services.Repository().RegisterUser(chatID, username); err != nil {
		b.reply(chatID, "❌ Registration failed, try again")
		return
	}

	// Materialize the default reminder settings (disabled, 20:00).
	if _, err := b.services.Repository().GetSettings(chatID); err != nil {
		b.reply(chatID, "❌ Registration failed, try again")
		return
	}

	b.reply(chatID, welcomeMessage)
}

func (b *Bot) handleLog(msg *tgbotapi.Message) {
	b.beginForm(msg.Chat.ID)
}

func (b *Bot) handleCancel(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if b.forms.get(chatID) == nil {
		b.reply(chatID, "Nothing to cancel")
		return
	}
	b.forms.drop(chatID)
	b.reply(chatID, "🗑 Questionnaire dropped. /log to start over")
}

func (b *Bot) handleToday(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	today := b.services.Logs.Today()

	l, err := b.services.Logs.Get(chatID, today)
	if errors.Is(err, database.ErrNotAuthenticated) {
		b.reply(chatID, "❌ You need to register first. Send /start")
		return
	}
	if errors.Is(err, database.ErrNotFound) {
		b.reply(chatID, fmt.Sprintf("📭 No DAM for %s yet. /log to answer today's questions", today))
		return
	}
	if err != nil {
		b.reply(chatID, "❌ Couldn't load today's log")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 <b>DAM for %s</b>\n\n", l.LogDate))
	for _, q := range database.Questions {
		sb.WriteString(fmt.Sprintf("%s: %s\n", database.QuestionNames[q], ratingBadge(l.Ratings[q])))
	}
	if l.HasSteps {
		sb.WriteString(fmt.Sprintf("\n👟 Steps: %d\n", l.StepCount))
	}
	if l.GoodThing != "" {
		sb.WriteString(fmt.Sprintf("🌟 Good thing: <i>%s</i>\n", l.GoodThing))
	}
	if l.Proud != database.Unanswered {
		sb.WriteString(fmt.Sprintf("💙 Proud of yourself: %s\n", l.Proud))
	}
	if l.PhotoURL != "" {
		sb.WriteString("📷 Photo attached\n")
	}

	if missing, err := b.services.Logs.HasMissing(chatID); err == nil && missing {
		sb.WriteString("\n⚠️ You have missing days this week. /missing")
	}

	b.reply(chatID, sb.String())
}

func ratingBadge(r database.Rating) string {
	switch r {
	case database.RatingBest:
		return "👍 1"
	case database.RatingPartial:
		return "🌗 0.5"
	case database.RatingSlight:
		return "🤏 0.25"
	case database.RatingWorst:
		return "💀 -1"
	default:
		return "👎 0"
	}
}

func (b *Bot) handleMissing(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	missing, err := b.services.Logs.Missing(chatID)
	if errors.Is(err, database.ErrNotAuthenticated) {
		b.reply(chatID, "❌ You need to register first. Send /start")
		return
	}
	if err != nil {
		b.reply(chatID, "❌ Couldn't check for missing days")
		return
	}

	if len(missing) == 0 {
		b.reply(chatID, "🔥 No missing days in the last week. Keep the streak going!")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚠️ <b>You missed %d day(s) this week</b>\n\n", len(missing)))
	for _, day := range missing {
		sb.WriteString("• " + day.String() + "\n")
	}
	sb.WriteString("\nEvery day counts. /log for today")
	b.reply(chatID, sb.String())
}

func (b *Bot) handleStats(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.Fields(strings.TrimPrefix(msg.Text, "/stats"))

	var (
		rng    stats.TimeRange
		custom *stats.DateRange
		err    error
	)

	switch len(args) {
	case 0:
		rng = stats.Overall
	case 1:
		rng, err = stats.ParseTimeRange(args[0])
		if err != nil {
			b.reply(chatID, "❌ Use /stats [day|week|month|all] or /stats FROM TO")
			return
		}
	case 2:
		from, errFrom := dates.Parse(args[0])
		to, errTo := dates.Parse(args[1])
		if errFrom != nil || errTo != nil {
			b.reply(chatID, "❌ Dates must be YYYY-MM-DD")
			return
		}
		rng = stats.Custom
		custom = &stats.DateRange{From: from, To: to}
	default:
		b.reply(chatID, "❌ Use /stats [day|week|month|all] or /stats FROM TO")
		return
	}

	result, err := b.services.Logs.StatsFor(chatID, rng, custom)
	if errors.Is(err, database.ErrNotAuthenticated) {
		b.reply(chatID, "❌ You need to register first. Send /start")
		return
	}
	if errors.Is(err, stats.ErrRangeTooWide) {
		b.reply(chatID, fmt.Sprintf("❌ Custom ranges are capped at %d days", stats.MaxCustomRangeDays))
		return
	}
	if err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}
	if result == nil {
		b.reply(chatID, "📭 No logs in that range yet. /log to get started")
		return
	}

	b.reply(chatID, fmt.Sprintf(
		"📊 <b>Stats (%s, %d entr%s)</b>\n\n"+
			"🥗 Diet score: <b>%d</b>/100\n"+
			"😴 Sleep score: <b>%d</b>/100\n"+
			"👟 Steps: <b>%s</b> (%.1f km)\n"+
			"💙 Mindset rate: <b>%d%%</b>",
		rng, result.Entries, plural(result.Entries, "y", "ies"),
		result.AvgDiet, result.AvgSleep,
		result.StepDisplay, result.TotalKm,
		result.MindsetRate,
	))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (b *Bot) handleRemind(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.Fields(strings.TrimPrefix(msg.Text, "/remind"))

	sched, err := b.services.Reminders.Get(chatID)
	if err != nil {
		b.reply(chatID, "❌ Couldn't load your reminder settings")
		return
	}

	if len(args) == 0 || args[0] == "status" {
		b.replyReminderStatus(chatID, sched)
		return
	}

	switch args[0] {
	case "on":
		err = sched.Enable()
	case "off":
		err = sched.Disable()
	default:
		// Treat anything else as a time-of-day update.
		err = sched.UpdateSettings(scheduler.SettingsPatch{Time: &args[0]})
	}

	if errors.Is(err, scheduler.ErrPermissionDenied) {
		b.reply(chatID, "🚫 Notifications are blocked for this chat. Unblock the bot in Telegram to enable reminders.")
		return
	}
	if err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}

	b.replyReminderStatus(chatID, sched)
}

func (b *Bot) replyReminderStatus(chatID int64, sched *scheduler.ReminderScheduler) {
	settings := sched.Settings()

	state := "🔕 off"
	if settings.Enabled {
		state = "🔔 on"
	}

	text := fmt.Sprintf(
		"<b>Daily reminder</b>\n\nStatus: %s\nTime: %s\nPermission: %s",
		state, settings.Time, sched.Permission(),
	)
	if next := sched.NextFire(); !next.IsZero() {
		text += "\nNext: " + next.In(b.loc).Format("2006-01-02 15:04")
	}
	text += "\n\n/remind on · /remind off · /remind HH:MM"
	b.reply(chatID, text)
}

func (b *Bot) handleShare(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.Fields(strings.TrimPrefix(msg.Text, "/share"))

	if _, err := b.services.Repository().GetUser(chatID); err != nil {
		b.reply(chatID, "❌ You need to register first. Send /start")
		return
	}

	if len(args) == 0 || args[0] == "status" {
		b.replyShareStatus(chatID)
		return
	}

	if args[0] == "off" {
		existed, err := b.services.Share.Disable(chatID)
		if err != nil {
			b.reply(chatID, "❌ Couldn't disable sharing")
			return
		}
		if !existed {
			b.reply(chatID, "📴 Sharing was already off")
			return
		}
		b.reply(chatID, "📴 Sharing disabled. Old links stopped working.")
		return
	}

	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		b.reply(chatID, "❌ Use /share [days], /share off or /share status")
		return
	}

	token, err := b.services.Share.Generate(chatID, days)
	if err != nil {
		b.reply(chatID, "❌ Couldn't create a share link")
		return
	}

	b.reply(chatID, fmt.Sprintf(
		"🔗 <b>Public dashboard link</b>\n\n%s\n\nExpires: %s",
		b.shareURL(token.Token), token.ExpiresAt.Format("2006-01-02"),
	))
}

func (b *Bot) replyShareStatus(chatID int64) {
	token, err := b.services.Share.Current(chatID)
	if err != nil {
		b.reply(chatID, "❌ Couldn't load sharing status")
		return
	}
	if token == nil {
		b.reply(chatID, "📴 Sharing is off. /share 7 creates a week-long link")
		return
	}
	if token.Expired(b.now()) {
		b.reply(chatID, "⌛ Your share link expired on "+token.ExpiresAt.Format("2006-01-02")+". /share 7 creates a new one")
		return
	}
	b.reply(chatID, fmt.Sprintf(
		"🔗 Sharing is on\n\n%s\n\nExpires: %s",
		b.shareURL(token.Token), token.ExpiresAt.Format("2006-01-02"),
	))
}

func (b *Bot) handleAvatar(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, a := range utils.Avatars {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(a, "avatar_"+a))
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	kb := tgbotapi.NewMessage(chatID, "Pick the avatar for your public dashboard:")
	kb.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.bot.Send(kb); err != nil {
		b.reply(chatID, "❌ Couldn't show avatar choices")
	}
}

func (b *Bot) handleAvatarCallback(chatID int64, emoji string) {
	if !utils.IsAvatar(emoji) {
		b.reply(chatID, "❌ Not one of the avatar choices")
		return
	}
	if err := b.services.Repository().SetValue(database.AvatarKey(chatID), emoji); err != nil {
		b.reply(chatID, "❌ Couldn't save your avatar")
		return
	}
	b.reply(chatID, "✅ Avatar set to "+emoji)
}

func (b *Bot) handleDelete(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.Fields(strings.TrimPrefix(msg.Text, "/delete"))
	if len(args) != 1 {
		b.reply(chatID, "❌ Use /delete YYYY-MM-DD")
		return
	}

	day, err := dates.Parse(args[0])
	if err != nil {
		b.reply(chatID, "❌ Dates must be YYYY-MM-DD")
		return
	}

	err = b.services.Logs.Delete(chatID, day)
	if errors.Is(err, database.ErrNotFound) {
		b.reply(chatID, "📭 No log on "+day.String())
		return
	}
	if err != nil {
		b.reply(chatID, "❌ Couldn't delete that log")
		return
	}
	b.reply(chatID, "🗑 Log for "+day.String()+" deleted")
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	b.reply(msg.Chat.ID, helpMessage)
}
