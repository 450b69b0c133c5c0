package bot

import (
	"context"

	"github.com/EspanolesRP/multasbot/internal/ledger"
	"github.com/EspanolesRP/multasbot/internal/unbapi"
)

// economy адаптирует unbapi под ledger.BalanceService.
type economy struct {
	c *unbapi.Client
}

func (e economy) Balance(ctx context.Context, guildID, userID string) (ledger.Balance, error) {
	ub, err := e.c.GetUserBalance(ctx, guildID, userID)
	if err != nil {
		return ledger.Balance{}, err
	}
	return ledger.Balance{Cash: ub.Cash, Bank: ub.Bank, Total: ub.Total}, nil
}

func (e economy) AdjustCash(ctx context.Context, guildID, userID string, delta int, memo string) error {
	return e.c.EditUserBalance(ctx, guildID, userID, delta, memo)
}
