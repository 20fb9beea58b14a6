package application

import "github.com/sglre6355/mediabot/internal/modules/greeting/domain"

// GreetInteractor decides whether a message gets a greeting.
type GreetInteractor struct{}

// NewGreetInteractor creates a new GreetInteractor.
func NewGreetInteractor() *GreetInteractor {
	return &GreetInteractor{}
}

// Execute evaluates the content and returns the greeting result.
func (g *GreetInteractor) Execute(content string) *domain.GreetingResult {
	return domain.NewGreetingResult(content)
}
