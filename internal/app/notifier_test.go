package app

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/smartschool/internal/models"
	"github.com/Spok95/smartschool/internal/schedule"
)

type stubBot struct {
	sent []tgbotapi.MessageConfig
}

func (b *stubBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		b.sent = append(b.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func TestTelegramNotifier(t *testing.T) {
	bot := &stubBot{}
	n := NewTelegramNotifier(bot, map[string]int64{"T1": 42})
	cur := schedule.Current{
		Period: &models.PeriodWindow{PeriodNo: 1, StartTime: "08:00", EndTime: "08:45"},
		Slot:   &models.ScheduleSlot{SubjectName: "Math", ClassGroupID: "9A", RoomCode: "101"},
	}
	if err := n.SlotChanged(context.Background(), "T1", cur); err != nil {
		t.Fatal(err)
	}
	if err := n.SlotChanged(context.Background(), "T2", cur); err != nil {
		t.Fatal(err)
	}
	if len(bot.sent) != 1 || bot.sent[0].ChatID != 42 {
		t.Fatalf("sent = %+v", bot.sent)
	}
	if want := "Now: Math, 9A, room 101\nperiod 1, 08:00-08:45"; bot.sent[0].Text != want {
		t.Fatalf("text = %q", bot.sent[0].Text)
	}
}

func TestFormatSlotMessage_NoClass(t *testing.T) {
	if got := FormatSlotMessage(schedule.Current{}); got != "No active class right now." {
		t.Fatalf("got %q", got)
	}
}
