package domain

import "strings"

// HelloTrigger is the message prefix the bot greets back.
const HelloTrigger = "$hello"

// GreetingResult represents the result of evaluating a message for a greeting.
type GreetingResult struct {
	ShouldRespond bool
	Response      string
}

// NewGreetingResult evaluates the message content.
func NewGreetingResult(content string) *GreetingResult {
	if !strings.HasPrefix(content, HelloTrigger) {
		return &GreetingResult{}
	}
	return &GreetingResult{
		ShouldRespond: true,
		Response:      "Hello!",
	}
}
