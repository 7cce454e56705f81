package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/YeswanthRajakumarr/damit-sub000/internal/services"
)

type Bot struct {
	bot      *tgbotapi.BotAPI
	services *services.ServiceManager
	handlers map[string]func(*tgbotapi.Message)
	forms    *formStore
	loc      *time.Location
	baseURL  string
	now      func() time.Time
}

func NewBot(token, baseURL string, serviceManager *services.ServiceManager, loc *time.Location) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}

	bot := &Bot{
		bot:      botAPI,
		services: serviceManager,
		handlers: make(map[string]func(*tgbotapi.Message)),
		forms:    newFormStore(),
		loc:      loc,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}

	bot.registerHandlers()
	log.Info("Bot initialized", "username", botAPI.Self.UserName)
	return bot, nil
}

func (b *Bot) registerHandlers() {
	b.handlers["/start"] = b.handleStart
	b.handlers["/log"] = b.handleLog
	b.handlers["/today"] = b.handleToday
	b.handlers["/missing"] = b.handleMissing
	b.handlers["/cancel"] = b.handleCancel
	b.handlers["/help"] = b.handleHelp
}

func (b *Bot) GetUsername() string {
	return b.bot.Self.UserName
}

func (b *Bot) SendMessageTo(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	_, err := b.bot.Send(msg)
	return err
}

// SendReminder is the rich notification path: HTML body plus a jump-in
// button.
func (b *Bot) SendReminder(chatID int64, title, body string) error {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🔔 <b>%s</b>\n\n%s", title, body))
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Log today", "start_log"),
		),
	)
	_, err := b.bot.Send(msg)
	return err
}

// SendPlain is the lower-capability fallback: no markup, no keyboard.
func (b *Bot) SendPlain(chatID int64, text string) error {
	_, err := b.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// Probe checks deliverability without messaging the user: a chat action
// fails with 403 when the user has blocked the bot.
func (b *Bot) Probe(chatID int64) error {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	_, err := b.bot.Request(action)
	return err
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	b.handleMessage(update.Message)
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.Photo != nil {
		b.handlePhoto(msg)
		return
	}

	text := msg.Text
	if text == "" {
		return
	}

	switch {
	case strings.HasPrefix(text, "/stats"):
		b.handleStats(msg)
	case strings.HasPrefix(text, "/remind"):
		b.handleRemind(msg)
	case strings.HasPrefix(text, "/share"):
		b.handleShare(msg)
	case strings.HasPrefix(text, "/avatar"):
		b.handleAvatar(msg)
	case strings.HasPrefix(text, "/delete"):
		b.handleDelete(msg)
	case strings.HasPrefix(text, "/"):
		command := strings.Fields(text)[0]
		if handler, exists := b.handlers[command]; exists {
			handler(msg)
		} else {
			b.reply(msg.Chat.ID, "❌ Unknown command. Try /help")
		}
	default:
		// Free text feeds an in-flight questionnaire, if any.
		b.handleFormText(msg)
	}
}

func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	defer func() {
		if _, err := b.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
			log.Warn("Callback ack failed", "err", err)
		}
	}()

	chatID := callback.Message.Chat.ID
	data := callback.Data
	log.Debug("Received callback", "chat", chatID, "data", data)

	switch {
	case data == "start_log":
		b.beginForm(chatID)
	case strings.HasPrefix(data, "rate_"):
		b.handleRatingCallback(chatID, strings.TrimPrefix(data, "rate_"))
	case data == "steps_skip":
		b.handleStepsSkip(chatID)
	case data == "good_skip":
		b.handleGoodThingSkip(chatID)
	case strings.HasPrefix(data, "proud_"):
		b.handleProudCallback(chatID, strings.TrimPrefix(data, "proud_"))
	case data == "photo_skip":
		b.handlePhotoSkip(chatID)
	case strings.HasPrefix(data, "avatar_"):
		b.handleAvatarCallback(chatID, strings.TrimPrefix(data, "avatar_"))
	}
}

// reply is the everything-the-user-did-gets-feedback helper.
func (b *Bot) reply(chatID int64, text string) {
	if err := b.SendMessageTo(chatID, text); err != nil {
		log.Error("Failed to send message", "chat", chatID, "err", err)
	}
}
