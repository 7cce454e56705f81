package telegram

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/database"
	"github.com/YeswanthRajakumarr/damit-sub000/internal/dates"
)

// The /log questionnaire walks eight rating keyboards, then steps, then
// the good thing, then proud-of-yourself, then an optional photo. One
// in-flight form per chat; /cancel drops it.

type formStep int

const (
	stepRatings formStep = iota
	stepSteps
	stepGoodThing
	stepProud
	stepPhoto
)

type logForm struct {
	day      dates.CalendarDate
	step     formStep
	question int
	fields   database.LogFields
}

type formStore struct {
	mu    sync.Mutex
	forms map[int64]*logForm
}

func newFormStore() *formStore {
	return &formStore{forms: make(map[int64]*logForm)}
}

func (fs *formStore) get(chatID int64) *logForm {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.forms[chatID]
}

func (fs *formStore) put(chatID int64, f *logForm) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.forms[chatID] = f
}

func (fs *formStore) drop(chatID int64) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.forms, chatID)
}

func (b *Bot) beginForm(chatID int64) {
	if _, err := b.services.Repository().GetUser(chatID); err != nil {
		b.reply(chatID, "❌ You need to register first. Send /start")
		return
	}

	form := &logForm{
		day: b.services.Logs.Today(),
		fields: database.LogFields{
			Ratings: make(map[database.Question]database.Rating),
		},
	}
	b.forms.put(chatID, form)

	b.reply(chatID, fmt.Sprintf("📝 <b>DAM for %s</b>\nAnswer the questions below. /cancel to abort.", form.day))
	b.askQuestion(chatID, form)
}

func (b *Bot) askQuestion(chatID int64, form *logForm) {
	q := database.Questions[form.question]
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"%s <b>(%d/%d)</b>\n%s",
		database.QuestionNames[q], form.question+1, len(database.Questions), database.QuestionPrompts[q],
	))
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = ratingKeyboard()
	if _, err := b.bot.Send(msg); err != nil {
		log.Error("Failed to send question", "chat", chatID, "err", err)
	}
}

func ratingKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👍 Yes", "rate_1"),
			tgbotapi.NewInlineKeyboardButtonData("🌗 Half", "rate_0.5"),
			tgbotapi.NewInlineKeyboardButtonData("🤏 Barely", "rate_0.25"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👎 No", "rate_0"),
			tgbotapi.NewInlineKeyboardButtonData("💀 Awful", "rate_-1"),
		),
	)
}

func (b *Bot) handleRatingCallback(chatID int64, raw string) {
	form := b.forms.get(chatID)
	if form == nil || form.step != stepRatings {
		return
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || !database.Rating(value).Valid() {
		b.reply(chatID, "❌ That rating didn't parse, try the buttons again")
		return
	}

	form.fields.Ratings[database.Questions[form.question]] = database.Rating(value)
	form.question++

	if form.question < len(database.Questions) {
		b.askQuestion(chatID, form)
		return
	}

	form.step = stepSteps
	b.askSteps(chatID)
}

func (b *Bot) askSteps(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "👟 <b>Steps</b>\nReply with today's step count, or skip.")
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = skipKeyboard("steps_skip")
	if _, err := b.bot.Send(msg); err != nil {
		log.Error("Failed to send steps prompt", "chat", chatID, "err", err)
	}
}

func skipKeyboard(callback string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", callback),
		),
	)
}

// handleFormText consumes free text for the steps and good-thing steps.
func (b *Bot) handleFormText(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	form := b.forms.get(chatID)
	if form == nil {
		return
	}

	switch form.step {
	case stepSteps:
		steps, err := strconv.ParseInt(msg.Text, 10, 64)
		if err != nil || steps < 0 {
			b.reply(chatID, "❌ Steps must be a non-negative number")
			return
		}
		form.fields.StepCount = steps
		form.fields.HasSteps = true
		form.step = stepGoodThing
		b.askGoodThing(chatID)
	case stepGoodThing:
		form.fields.GoodThing = msg.Text
		form.step = stepProud
		b.askProud(chatID)
	}
}

func (b *Bot) handleStepsSkip(chatID int64) {
	form := b.forms.get(chatID)
	if form == nil || form.step != stepSteps {
		return
	}
	form.step = stepGoodThing
	b.askGoodThing(chatID)
}

func (b *Bot) askGoodThing(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "🌟 <b>One good thing</b>\nWhat's one good thing that happened today?")
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = skipKeyboard("good_skip")
	if _, err := b.bot.Send(msg); err != nil {
		log.Error("Failed to send good-thing prompt", "chat", chatID, "err", err)
	}
}

func (b *Bot) handleGoodThingSkip(chatID int64) {
	form := b.forms.get(chatID)
	if form == nil || form.step != stepGoodThing {
		return
	}
	form.step = stepProud
	b.askProud(chatID)
}

func (b *Bot) askProud(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "💙 <b>Mindset</b>\nAre you proud of yourself today?")
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💪 Yes", "proud_yes"),
			tgbotapi.NewInlineKeyboardButtonData("😞 No", "proud_no"),
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", "proud_skip"),
		),
	)
	if _, err := b.bot.Send(msg); err != nil {
		log.Error("Failed to send mindset prompt", "chat", chatID, "err", err)
	}
}

func (b *Bot) handleProudCallback(chatID int64, answer string) {
	form := b.forms.get(chatID)
	if form == nil || form.step != stepProud {
		return
	}

	// Same tolerant parser the repository uses at the scan boundary.
	form.fields.Proud = database.ParseAffirmation(answer)
	form.step = stepPhoto

	if _, err := b.services.Logs.Save(chatID, form.day, form.fields); err != nil {
		b.reply(chatID, "❌ Couldn't save your log: "+err.Error())
		b.forms.drop(chatID)
		return
	}

	msg := tgbotapi.NewMessage(chatID, "📷 <b>Photo</b>\nSend a photo of the day, or finish without one.")
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = skipKeyboard("photo_skip")
	if _, err := b.bot.Send(msg); err != nil {
		log.Error("Failed to send photo prompt", "chat", chatID, "err", err)
	}
}

func (b *Bot) handlePhotoSkip(chatID int64) {
	form := b.forms.get(chatID)
	if form == nil || form.step != stepPhoto {
		return
	}
	b.forms.drop(chatID)
	b.reply(chatID, "✅ DAM saved for "+form.day.String()+". See you tomorrow!")
}

func (b *Bot) handlePhoto(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	form := b.forms.get(chatID)
	if form == nil || form.step != stepPhoto {
		return
	}

	// Largest size is last in the slice.
	photo := msg.Photo[len(msg.Photo)-1]
	data, err := b.downloadFile(photo.FileID)
	if err != nil {
		b.reply(chatID, "❌ Couldn't download that photo, finishing without it")
		b.forms.drop(chatID)
		return
	}

	if _, err := b.services.Logs.AttachPhoto(chatID, form.day, ".jpg", data); err != nil {
		b.reply(chatID, "❌ Couldn't attach the photo: "+err.Error())
		b.forms.drop(chatID)
		return
	}

	b.forms.drop(chatID)
	b.reply(chatID, "✅ DAM saved for "+form.day.String()+" with photo. See you tomorrow!")
}

func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	url, err := b.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
