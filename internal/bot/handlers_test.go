package bot

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/gameday/internal/metrics"
	"github.com/omarshaarawi/gameday/internal/repository/memory"
	"github.com/omarshaarawi/gameday/internal/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func command(text string) tgbotapi.Update {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 42},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}}
}

func TestParseSquaresArgs(t *testing.T) {
	tests := []struct {
		args    string
		want    squaresCommand
		wantErr bool
	}{
		{args: "new Big Game Pool $2.50", want: squaresCommand{action: "new", name: "Big Game Pool", fee: "2.50"}},
		{args: "claim Uncle Bob 5", want: squaresCommand{action: "claim", name: "Uncle Bob", count: 5}},
		{args: "LOCK", want: squaresCommand{action: "lock"}},
		{args: "board", want: squaresCommand{action: "board"}},
		{args: "score q2 14 10", want: squaresCommand{action: "score", period: "q2", home: 14, away: 10}},
		{args: "", wantErr: true},
		{args: "new 5", wantErr: true},
		{args: "claim Bob five", wantErr: true},
		{args: "score q1 7", wantErr: true},
		{args: "score q1 seven 3", wantErr: true},
		{args: "board now", wantErr: true},
		{args: "shuffle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			got, err := parseSquaresArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleCommandUsage(t *testing.T) {
	h := NewHandler(nil, nil)
	ctx := context.Background()

	msg := h.HandleCommand(ctx, command("/help"))
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "/winprob")
	assert.Contains(t, msg.Text, "/boombust <team>")

	assert.Contains(t, h.HandleCommand(ctx, command("/whohas")).Text, "Usage: /whohas")
	assert.Contains(t, h.HandleCommand(ctx, command("/boombust")).Text, "Usage: /boombust")
	assert.Contains(t, h.HandleCommand(ctx, command("/squares")).Text, "Usage: /squares")

	unknown := metrics.BotCommandsTotal.WithLabelValues("unknown")
	before := testutil.ToFloat64(unknown)
	assert.Contains(t, h.HandleCommand(ctx, command("/fumble")).Text, "Unknown command")
	assert.Equal(t, before+1, testutil.ToFloat64(unknown))
}

func TestHandleSquares(t *testing.T) {
	h := NewHandler(nil, service.NewSquaresService(memory.NewRepository()))
	ctx := context.Background()

	assert.Contains(t, h.HandleCommand(ctx, command("/squares board")).Text, "no squares pool")
	assert.Contains(t, h.HandleCommand(ctx, command("/squares new Big Game 1")).Text, "*Squares pool open:* Big Game")
	assert.Contains(t, h.HandleCommand(ctx, command("/squares claim Uncle Bob 100")).Text, "0 left, pot $100.00")
	assert.Contains(t, h.HandleCommand(ctx, command("/squares claim Amy 1")).Text, "Squares error")
	assert.Contains(t, h.HandleCommand(ctx, command("/squares lock")).Text, "A = Uncle Bob")
	assert.Contains(t, h.HandleCommand(ctx, command("/squares score q1 7 3")).Text, "Uncle Bob wins $25.00")
}
