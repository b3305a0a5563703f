package cashflow

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Bucket is one of the three fixed currency slots of every report figure
type Bucket string

const (
	BucketBS  Bucket = "bs"
	BucketUSD Bucket = "usd"
	BucketEUR Bucket = "eur"
)

// BucketForCode maps a currency code onto its bucket.
// Codes outside USD, EUR, VEF and BS are reported as unmapped and dropped by callers.
func BucketForCode(code string) (Bucket, bool) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "USD":
		return BucketUSD, true
	case "EUR":
		return BucketEUR, true
	case "VEF", "BS":
		return BucketBS, true
	default:
		return "", false
	}
}

// Totals is the numeric per-currency figure rendered in reports
type Totals struct {
	BS  float64 `json:"bs"`
	USD float64 `json:"usd"`
	EUR float64 `json:"eur"`
}

// TextTotals is the string rendering used by the legacy close
type TextTotals struct {
	BS  string `json:"bs"`
	USD string `json:"usd"`
	EUR string `json:"eur"`
}

// Amounts holds exact per-currency sums. The zero value is all zeros.
type Amounts struct {
	BS  decimal.Decimal
	USD decimal.Decimal
	EUR decimal.Decimal
}

// AddTo accumulates value into bucket b
func (a *Amounts) AddTo(b Bucket, value decimal.Decimal) {
	switch b {
	case BucketBS:
		a.BS = a.BS.Add(value)
	case BucketUSD:
		a.USD = a.USD.Add(value)
	case BucketEUR:
		a.EUR = a.EUR.Add(value)
	}
}

// Get returns the amount held in bucket b
func (a Amounts) Get(b Bucket) decimal.Decimal {
	switch b {
	case BucketBS:
		return a.BS
	case BucketUSD:
		return a.USD
	case BucketEUR:
		return a.EUR
	}
	return decimal.Zero
}

func (a Amounts) Add(o Amounts) Amounts {
	return Amounts{BS: a.BS.Add(o.BS), USD: a.USD.Add(o.USD), EUR: a.EUR.Add(o.EUR)}
}

func (a Amounts) Sub(o Amounts) Amounts {
	return Amounts{BS: a.BS.Sub(o.BS), USD: a.USD.Sub(o.USD), EUR: a.EUR.Sub(o.EUR)}
}

// Round rounds every bucket half away from zero
func (a Amounts) Round(places int32) Amounts {
	return Amounts{BS: a.BS.Round(places), USD: a.USD.Round(places), EUR: a.EUR.Round(places)}
}

// Totals casts the exact sums to floating point
func (a Amounts) Totals() Totals {
	return Totals{BS: a.BS.InexactFloat64(), USD: a.USD.InexactFloat64(), EUR: a.EUR.InexactFloat64()}
}

// Text renders the sums as decimal strings; zero renders as "0"
func (a Amounts) Text() TextTotals {
	return TextTotals{BS: a.BS.String(), USD: a.USD.String(), EUR: a.EUR.String()}
}
