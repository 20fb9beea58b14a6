package presentation

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/mediabot/internal/bot"
	"github.com/sglre6355/mediabot/internal/modules/greeting/application"
)

type fixedLatency time.Duration

func (f fixedLatency) HeartbeatLatency() time.Duration {
	return time.Duration(f)
}

func TestPingHandler_ReportsLatency(t *testing.T) {
	handler := NewPingHandler(application.NewPingInteractor(fixedLatency(42*time.Millisecond), time.Now()))
	responder := &bot.MockResponder{}

	err := handler.Handle(nil, nil, responder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if responder.LastResponse == nil {
		t.Fatal("expected response, got nil")
	}

	if responder.LastResponse.Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Errorf("expected response type %d, got %d",
			discordgo.InteractionResponseChannelMessageWithSource,
			responder.LastResponse.Type)
	}

	data := responder.LastResponse.Data
	if data == nil {
		t.Fatal("expected response data, got nil")
	}

	want := "Pong! Gateway latency: 42 ms. Uptime: 0s."
	if data.Content != want {
		t.Errorf("expected content %q, got %q", want, data.Content)
	}
	if data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Error("expected an ephemeral reply")
	}
}

func TestPingHandler_ResponderError(t *testing.T) {
	handler := NewPingHandler(application.NewPingInteractor(fixedLatency(0), time.Now()))
	expectedErr := errors.New("responder failed")
	responder := &bot.MockResponder{Err: expectedErr}

	err := handler.Handle(nil, nil, responder)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

type sentMessage struct {
	channelID string
	content   string
}

type mockSender struct {
	sent []sentMessage
	err  error
}

func (m *mockSender) ChannelMessageSend(
	channelID, content string,
	_ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	m.sent = append(m.sent, sentMessage{channelID: channelID, content: content})
	return &discordgo.Message{}, m.err
}

func messageCreate(authorID, content string, isBot bool) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ChannelID: "10",
			Content:   content,
			Author:    &discordgo.User{ID: authorID, Bot: isBot},
		},
	}
}

func TestGreetHandler(t *testing.T) {
	tests := []struct {
		name     string
		message  *discordgo.MessageCreate
		wantSent bool
	}{
		{name: "greets users", message: messageCreate("1", "$hello", false), wantSent: true},
		{name: "ignores other messages", message: messageCreate("1", "hi", false)},
		{name: "ignores itself", message: messageCreate("99", "$hello", true)},
		{name: "ignores other bots", message: messageCreate("2", "$hello", true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &mockSender{}
			NewGreetHandler().handle(sender, "99", tt.message)

			if !tt.wantSent {
				if len(sender.sent) != 0 {
					t.Errorf("expected no message, got %v", sender.sent)
				}
				return
			}
			if len(sender.sent) != 1 {
				t.Fatalf("expected 1 message, got %d", len(sender.sent))
			}
			if sender.sent[0].channelID != "10" || sender.sent[0].content != "Hello!" {
				t.Errorf("expected Hello! in channel 10, got %+v", sender.sent[0])
			}
		})
	}
}

func TestGreetHandler_SendErrorIsLogged(t *testing.T) {
	sender := &mockSender{err: errors.New("missing permissions")}

	// Must not panic.
	NewGreetHandler().handle(sender, "99", messageCreate("1", "$hello", false))

	if len(sender.sent) != 1 {
		t.Errorf("expected a send attempt, got %d", len(sender.sent))
	}
}
