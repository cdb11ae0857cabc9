package folio

import (
	"time"
)

// BRL is a helper for tests to create real money from const.
func BRL(v float64) Money { return M(v, "BRL") }

// NO is a helper for tests to create money with no currency set.
func NO(v float64) Money { return M(v, "") }

// at is a helper for tests to build execution times on a given day.
func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// buy and sell build active trade entries for tests.
func buy(symbol string, qty, price float64, when time.Time) Transaction {
	return NewTransaction(TxBuy, symbol, Q(qty), BRL(price), when, "")
}

func sell(symbol string, qty, price float64, when time.Time) Transaction {
	return NewTransaction(TxSell, symbol, Q(qty), BRL(price), when, "")
}

// twoClassProfile builds a profile over two classes for rebalance tests.
func twoClassProfile(wx, wy, band float64) *Profile {
	p, err := NewProfile("test", "",
		map[AssetClass]float64{Equity: wx, RealEstateFund: wy},
		map[AssetClass]float64{Equity: band, RealEstateFund: band},
	)
	if err != nil {
		panic(err)
	}
	return p
}
