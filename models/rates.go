package models

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"bitbucket.org/stepfield/shoes_backend/config"
	"bitbucket.org/stepfield/shoes_backend/utils"
	"github.com/shopspring/decimal"
)

// Exchange rates come from the central bank's open API as direct
// quotes against UAH. A fetch failure is never fatal: the last-known
// rates stored in settings stay in effect and pricing keeps working.

const defaultRatesURL = "https://bank.gov.ua/NBUStatService/v1/statdirectory/exchange?json"
const ratesCacheKey = "rates:latest"
const ratesCacheTTL = time.Hour

var ratesHTTPClient = &http.Client{Timeout: 10 * time.Second}

type bankRate struct {
	Cc   string  `json:"cc"`
	Rate float64 `json:"rate"`
}

func ratesURL() string {
	if url := os.Getenv("RATES_URL"); url != "" {
		return url
	}
	return defaultRatesURL
}

// FetchRates pulls current USD/EUR quotes, serving from the redis
// cache when fresh.
func FetchRates(ctx context.Context) (ExchangeRates, error) {
	var cached ExchangeRates
	if ok, err := config.GetRedisObject(ratesCacheKey, &cached); err == nil && ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ratesURL(), nil)
	if err != nil {
		return ExchangeRates{}, err
	}
	resp, err := ratesHTTPClient.Do(req)
	if err != nil {
		return ExchangeRates{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ExchangeRates{}, errors.New("rate source returned " + resp.Status)
	}

	var quotes []bankRate
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return ExchangeRates{}, err
	}

	rates, err := parseBankRates(quotes)
	if err != nil {
		return ExchangeRates{}, err
	}

	if err := config.SetRedisObject(ratesCacheKey, &rates, ratesCacheTTL); err != nil {
		config.LogError(ctx, config.GetLogger(), "rates", "FetchRates", "cache", nil, err)
	}
	return rates, nil
}

func parseBankRates(quotes []bankRate) (ExchangeRates, error) {
	var rates ExchangeRates
	for _, q := range quotes {
		switch q.Cc {
		case "USD":
			rates.Usd = decimal.NewFromFloat(q.Rate)
		case "EUR":
			rates.Eur = decimal.NewFromFloat(q.Rate)
		}
	}
	if rates.Usd.IsZero() || rates.Eur.IsZero() {
		return ExchangeRates{}, errors.New("rate source is missing USD or EUR quote")
	}
	return rates, nil
}

// RefreshRates fetches current quotes and stores them in settings.
// Manual-rate mode and fetch failures both leave settings untouched.
func RefreshRates(ctx context.Context) (*Settings, error) {
	settings, err := GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if utils.DereferencePtr(settings.IsManualRate) {
		return settings, nil
	}

	rates, err := FetchRates(ctx)
	if err != nil {
		config.LogError(ctx, config.GetLogger(), "rates", "RefreshRates", "fetch", nil, err)
		// last-known rates remain in effect
		return settings, nil
	}

	return UpdateSettings(ctx, map[string]interface{}{
		"usd_rate": rates.Usd,
		"eur_rate": rates.Eur,
	})
}
