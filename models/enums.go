package models

// CurrencyCode identifies a display/payment currency. Storage amounts
// are always USD; UAH is the local reference currency the bank quotes
// against.
type CurrencyCode string

const (
	CurrencyUSD CurrencyCode = "USD"
	CurrencyEUR CurrencyCode = "EUR"
	CurrencyUAH CurrencyCode = "UAH"
)

func (c CurrencyCode) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyUAH:
		return true
	}
	return false
}
