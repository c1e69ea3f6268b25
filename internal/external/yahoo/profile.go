package yahoo

import (
	"context"

	"github.com/wonny/openresearch/backend/internal/contracts"
)

// Profile is the raw company profile payload.
type Profile struct {
	Info      contracts.CompanyInfo
	SourceURL string
}

// FetchProfile fetches the company profile for a ticker.
func (c *Client) FetchProfile(ctx context.Context, ticker string) (*Profile, error) {
	result, err := c.fetchSummary(ctx, ticker, "price,assetProfile")
	if err != nil {
		return nil, err
	}

	profile := &Profile{SourceURL: QuoteURL(ticker)}
	if result.Price != nil {
		profile.Info.ShortName = result.Price.ShortName
		profile.Info.LongName = result.Price.LongName
		profile.Info.Exchange = result.Price.ExchangeName
	}
	if result.AssetProfile != nil {
		profile.Info.Sector = result.AssetProfile.Sector
		profile.Info.Industry = result.AssetProfile.Industry
		profile.Info.Country = result.AssetProfile.Country
	}

	c.logger.WithField("ticker", ticker).Debug("Fetched company profile")
	return profile, nil
}
