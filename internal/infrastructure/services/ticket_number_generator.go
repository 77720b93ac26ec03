package services

import (
	"context"
	"fmt"

	"github.com/campusdesk/campusdesk/internal/shared/id"
)

// NumberChecker reports whether a ticket number is already taken.
type NumberChecker interface {
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

// TicketNumberGenerator draws random TKT-XXXXXXXX numbers until it finds one
// that is free. The unique index still decides races between two creators.
type TicketNumberGenerator struct {
	checker     NumberChecker
	maxAttempts int
	newNumber   func() (string, error)
}

func NewTicketNumberGenerator(checker NumberChecker, maxAttempts int) *TicketNumberGenerator {
	if maxAttempts <= 0 {
		maxAttempts = 32
	}
	return &TicketNumberGenerator{
		checker:     checker,
		maxAttempts: maxAttempts,
		newNumber:   id.NewTicketNumber,
	}
}

func (g *TicketNumberGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		number, err := g.newNumber()
		if err != nil {
			return "", fmt.Errorf("failed to generate ticket number: %w", err)
		}
		taken, err := g.checker.ExistsByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("no free ticket number after %d attempts", g.maxAttempts)
}
