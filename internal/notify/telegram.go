package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/fxscalper/models"
)

// Telegram posts order confirmations to a single chat
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegram connects with the given bot token. Endpoint and client are
// optional and default to the public Bot API.
func NewTelegram(token string, chatID int64, endpoint string, client *http.Client) (*Telegram, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = &http.Client{}
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connecting telegram bot: %w", err)
	}

	logger := log.With().Str("component", "telegram").Logger()
	logger.Info().Str("bot", bot.Self.UserName).Int64("chat_id", chatID).Msg("Telegram notifier ready")

	return &Telegram{bot: bot, chatID: chatID, logger: logger}, nil
}

func (t *Telegram) OrderPlaced(ctx context.Context, intent models.OrderIntent, conf *models.OrderConfirmation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, FormatOrder(intent, conf))
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Warn().Err(err).Str("symbol", intent.Symbol).Msg("Failed to send order notification")
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}

// FormatOrder renders the notification text
func FormatOrder(intent models.OrderIntent, conf *models.OrderConfirmation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s x%d\n", intent.Side, intent.Symbol, intent.Units)
	fmt.Fprintf(&b, "SL: %s\nTP: %s\n", intent.StopLoss, intent.TakeProfit)
	if conf != nil {
		if conf.FillPrice > 0 {
			fmt.Fprintf(&b, "Fill: %g\n", conf.FillPrice)
		}
		fmt.Fprintf(&b, "Order: %s", conf.OrderID)
		if conf.TradeID != "" {
			fmt.Fprintf(&b, " Trade: %s", conf.TradeID)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Nop drops every notification
type Nop struct{}

func (Nop) OrderPlaced(context.Context, models.OrderIntent, *models.OrderConfirmation) error {
	return nil
}
