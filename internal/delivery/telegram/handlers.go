package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pmsignal/watchbot/internal/domain"
	"github.com/pmsignal/watchbot/internal/usecase"
	"go.uber.org/zap"
)

type Handlers struct {
	watchUC       *usecase.WatchUsecase
	logger        *zap.Logger
	conversations *conversationState
}

func NewHandlers(watchUC *usecase.WatchUsecase, logger *zap.Logger) *Handlers {
	return &Handlers{watchUC: watchUC, logger: logger, conversations: newConversationState()}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, api, update)
		return
	}
	h.handleText(ctx, api, update)
}

func (h *Handlers) handleCommand(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.String("command", command),
		zap.String("args", args),
	)

	// A fresh command always abandons a pending interaction.
	h.conversations.set(chatID, interaction{kind: stateIdle})

	switch command {
	case "start":
		watches, err := h.watchUC.List(ctx, chatID)
		if err != nil {
			h.logger.Warn("start command failed", zap.Int64("chat_id", chatID), zap.Error(err))
			h.reply(api, chatID, "Something went wrong. Please try again.")
			return
		}
		h.reply(api, chatID, fmt.Sprintf("🤖 Polymarket Signal Bot\n\n%s\nWatched addresses: %d", HelpText, len(watches)))
	case "help":
		h.reply(api, chatID, HelpText)
	case "watch":
		if strings.TrimSpace(args) == "" {
			h.conversations.set(chatID, interaction{kind: stateAwaitingAddress})
			h.reply(api, chatID, "Send me the address to watch (0x...).")
			return
		}
		address, err := ParseAddressArg(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /watch 0x1234...")
			return
		}
		h.doWatch(ctx, api, chatID, address)
	case "unwatch":
		address, err := ParseAddressArg(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /unwatch 0x1234...")
			return
		}
		if err := h.watchUC.Unwatch(ctx, chatID, address); err != nil {
			h.logger.Warn("unwatch failed", zap.Int64("chat_id", chatID), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf("🛑 Stopped watching %s", strings.ToLower(strings.TrimSpace(address))))
	case "list":
		watches, err := h.watchUC.List(ctx, chatID)
		if err != nil {
			h.logger.Warn("list failed", zap.Int64("chat_id", chatID), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, formatWatchList(watches))
	case "min":
		address, amount, err := ParseThresholdArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /min 0x1234... 10000")
			return
		}
		if amount == "" {
			watch, err := h.watchUC.Get(ctx, chatID, address)
			if err != nil {
				h.reply(api, chatID, h.errorMessage(err))
				return
			}
			h.conversations.set(chatID, interaction{kind: stateAwaitingThreshold, address: watch.Address})
			h.reply(api, chatID, fmt.Sprintf(
				"🎛 Current threshold for %s: %s USDC\nSend the new amount (0 to alert on everything).",
				watch.Address, watch.Threshold.String(),
			))
			return
		}
		h.doSetThreshold(ctx, api, chatID, address, amount)
	case "pause":
		h.doSetPaused(ctx, api, chatID, args, true)
	case "resume":
		h.doSetPaused(ctx, api, chatID, args, false)
	case "clear":
		count, err := h.watchUC.ClearAll(ctx, chatID)
		if err != nil {
			h.logger.Warn("clear failed", zap.Int64("chat_id", chatID), zap.Error(err))
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf("🧹 Removed %d watched address(es).", count))
	default:
		h.reply(api, chatID, "Unknown command.\n\n"+HelpText)
	}
}

func (h *Handlers) handleText(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return
	}

	switch pending := h.conversations.take(chatID); pending.kind {
	case stateAwaitingAddress:
		h.doWatch(ctx, api, chatID, text)
	case stateAwaitingThreshold:
		h.doSetThreshold(ctx, api, chatID, pending.address, text)
	}
}

func (h *Handlers) doWatch(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, address string) {
	watch, err := h.watchUC.Watch(ctx, chatID, address)
	if err != nil {
		h.logger.Warn("watch failed", zap.Int64("chat_id", chatID), zap.String("address", address), zap.Error(err))
		h.reply(api, chatID, h.errorMessage(err))
		return
	}
	h.logger.Info("watch complete", zap.Int64("chat_id", chatID), zap.String("address", watch.Address))
	h.reply(api, chatID, fmt.Sprintf("✅ Now watching %s", watch.Address))
}

func (h *Handlers) doSetThreshold(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, address, amount string) {
	value, err := h.watchUC.SetThreshold(ctx, chatID, address, amount)
	if err != nil {
		h.logger.Warn("min failed", zap.Int64("chat_id", chatID), zap.String("address", address), zap.Error(err))
		h.reply(api, chatID, h.errorMessage(err))
		return
	}
	h.logger.Info("min complete", zap.Int64("chat_id", chatID), zap.String("address", address), zap.String("threshold", value.String()))
	h.reply(api, chatID, fmt.Sprintf("✅ Threshold set: %s USDC", value.String()))
}

func (h *Handlers) doSetPaused(ctx context.Context, api *tgbotapi.BotAPI, chatID int64, args string, paused bool) {
	usage := "Usage: /pause 0x1234..."
	verb := "Paused"
	if !paused {
		usage = "Usage: /resume 0x1234..."
		verb = "Resumed"
	}
	address, err := ParseAddressArg(args)
	if err != nil {
		h.reply(api, chatID, usage)
		return
	}
	if err := h.watchUC.SetPaused(ctx, chatID, address, paused); err != nil {
		h.logger.Warn("pause toggle failed", zap.Int64("chat_id", chatID), zap.String("address", address), zap.Error(err))
		h.reply(api, chatID, h.errorMessage(err))
		return
	}
	h.reply(api, chatID, fmt.Sprintf("⏯ %s %s", verb, strings.ToLower(strings.TrimSpace(address))))
}

func (h *Handlers) errorMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrInvalidAddress):
		return "❌ Invalid address format. Expected 0x followed by 40 hex characters."
	case errors.Is(err, usecase.ErrInvalidAmount):
		return "❌ Invalid amount. Use a non-negative number like 10000 (or 0 to reset)."
	case errors.Is(err, usecase.ErrWatchNotFound):
		return "Address not found. Use /list to see your watches."
	}

	h.logger.Warn("unhandled error", zap.Error(err))
	return "Something went wrong. Please try again."
}

func formatWatchList(watches []domain.Watch) string {
	if len(watches) == 0 {
		return "Nothing watched yet. Use /watch 0x... to start."
	}

	var builder strings.Builder
	builder.WriteString("📌 Watched addresses:\n")
	for _, watch := range watches {
		builder.WriteString(fmt.Sprintf("• %s (min %s USDC", watch.Address, watch.Threshold.String()))
		if watch.Paused {
			builder.WriteString(", paused")
		}
		builder.WriteString(")\n")
	}
	return builder.String()
}

func (h *Handlers) reply(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}
