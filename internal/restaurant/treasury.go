package restaurant

import "github.com/Lixing-Zhang/restaurant-ledger/internal/payment"

// Withdraw takes amount out of the restaurant balance as a coin for the recipient.
func (r *Restaurant) Withdraw(m Management, amount uint64) (*payment.Coin, error) {
	if err := r.CheckManager(m); err != nil {
		return nil, err
	}
	if amount == 0 || amount > r.Balance.Value() {
		return nil, ErrInvalidAmount
	}

	return r.Balance.Split(amount)
}
