package bot

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Responder provides an abstraction for responding to Discord interactions.
// This interface enables testing handlers without a live Discord connection.
type Responder interface {
	// Respond sends a response to an interaction.
	Respond(response *discordgo.InteractionResponse) error

	// Defer acknowledges the interaction so that the answer can be sent
	// later through Followup. Discord requires an acknowledgement within 3s.
	Defer(ephemeral bool) error

	// Followup sends a message after the interaction has been deferred.
	Followup(params *discordgo.WebhookParams) error
}

// DiscordResponder implements Responder using a live Discord session.
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

// NewDiscordResponder creates a new DiscordResponder.
func NewDiscordResponder(s *discordgo.Session, i *discordgo.Interaction) *DiscordResponder {
	return &DiscordResponder{
		session:     s,
		interaction: i,
	}
}

// Respond sends a response to the interaction via Discord API.
func (r *DiscordResponder) Respond(response *discordgo.InteractionResponse) error {
	return r.session.InteractionRespond(r.interaction, response)
}

// Defer sends a deferred channel message response.
func (r *DiscordResponder) Defer(ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

// Followup creates a followup message for the deferred interaction.
func (r *DiscordResponder) Followup(params *discordgo.WebhookParams) error {
	_, err := r.session.FollowupMessageCreate(r.interaction, true, params)
	return err
}

// MockResponder is a test double for Responder.
type MockResponder struct {
	mu sync.Mutex

	LastResponse *discordgo.InteractionResponse
	Deferred     bool
	Ephemeral    bool
	Followups    []*discordgo.WebhookParams
	Err          error
}

// Respond records the response for testing.
func (m *MockResponder) Respond(response *discordgo.InteractionResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastResponse = response
	return m.Err
}

// Defer records the deferral for testing.
func (m *MockResponder) Defer(ephemeral bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deferred = true
	m.Ephemeral = ephemeral
	return m.Err
}

// Followup records the followup for testing.
func (m *MockResponder) Followup(params *discordgo.WebhookParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Followups = append(m.Followups, params)
	return m.Err
}

// LastFollowup returns the most recent followup, or nil if none was sent.
func (m *MockResponder) LastFollowup() *discordgo.WebhookParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Followups) == 0 {
		return nil
	}
	return m.Followups[len(m.Followups)-1]
}
