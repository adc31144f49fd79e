package runner

import "github.com/shopspring/decimal"

// Bankroll — подсказка размера ставки: Келли с нижней и верхней границей доли банка.
type Bankroll struct {
	bank     decimal.Decimal
	fracBase float64
	fracCap  float64
}

func NewBankroll(bank, fracBase, fracCap float64) *Bankroll {
	return &Bankroll{bank: decimal.NewFromFloat(bank), fracBase: fracBase, fracCap: fracCap}
}

// Stake: pWin=nil — базовая доля.
func (b *Bankroll) Stake(pWin *float64, netOdds float64) decimal.Decimal {
	f := b.fracBase
	if pWin != nil {
		edge := max(0, *pWin*netOdds-(1-*pWin))
		f = min(b.fracCap, max(b.fracBase, edge/(netOdds+1e-6)))
	}
	return b.bank.Mul(decimal.NewFromFloat(f)).Round(2)
}

func (b *Bankroll) Bank() decimal.Decimal { return b.bank }
