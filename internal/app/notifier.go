package app

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/smartschool/internal/schedule"
	"github.com/Spok95/smartschool/internal/tg"
)

// TelegramNotifier пишет учителю в телеграм, когда начинается его урок.
type TelegramNotifier struct {
	bot   tg.Sender
	chats map[string]int64
	lim   *ChatLimiter
}

func NewTelegramNotifier(bot tg.Sender, chats map[string]int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chats: chats, lim: NewChatLimiter()}
}

func (n *TelegramNotifier) SlotChanged(_ context.Context, teacherID string, cur schedule.Current) error {
	chatID, ok := n.chats[teacherID]
	if !ok || cur.Slot == nil {
		return nil
	}
	unlock := n.lim.lock(chatID)
	defer unlock()
	_, err := tg.Send(n.bot, tgbotapi.NewMessage(chatID, FormatSlotMessage(cur)))
	return err
}

// FormatSlotMessage renders the "class started" text.
func FormatSlotMessage(cur schedule.Current) string {
	if cur.Slot == nil {
		return "No active class right now."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Now: %s, %s", cur.Slot.SubjectName, cur.Slot.ClassGroupID)
	if cur.Slot.RoomCode != "" {
		fmt.Fprintf(&b, ", room %s", cur.Slot.RoomCode)
	}
	if p := cur.Period; p != nil {
		name := p.DisplayName
		if name == "" {
			name = fmt.Sprintf("period %d", p.PeriodNo)
		}
		fmt.Fprintf(&b, "\n%s, %s-%s", name, p.StartTime, p.EndTime)
	}
	return b.String()
}
