package collector

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"CrossoverSentinel/internal/model"

	"github.com/guregu/null/v6"
)

const quoteSummaryModules = "summaryDetail,defaultKeyStatistics,financialData,institutionOwnership"

// yahooValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} wrapper. Missing metrics come back as {}.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

func (v yahooValue) float() null.Float { return null.FloatFromPtr(v.Raw) }

// pct converts a ratio such as 0.25 into 25.
func (v yahooValue) pct() null.Float {
	if v.Raw == nil {
		return null.Float{}
	}
	return null.FloatFrom(*v.Raw * 100)
}

type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				MarketCap        yahooValue `json:"marketCap"`
				DividendYield    yahooValue `json:"dividendYield"`
				Beta             yahooValue `json:"beta"`
				FiftyTwoWeekHigh yahooValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  yahooValue `json:"fiftyTwoWeekLow"`
				AverageVolume    yahooValue `json:"averageVolume"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				EnterpriseValue yahooValue `json:"enterpriseValue"`
				ForwardPE       yahooValue `json:"forwardPE"`
				PEGRatio        yahooValue `json:"pegRatio"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				ReturnOnEquity   yahooValue `json:"returnOnEquity"`
				ProfitMargins    yahooValue `json:"profitMargins"`
				OperatingMargins yahooValue `json:"operatingMargins"`
				CurrentRatio     yahooValue `json:"currentRatio"`
				RevenueGrowth    yahooValue `json:"revenueGrowth"`
				EarningsGrowth   yahooValue `json:"earningsGrowth"`
			} `json:"financialData"`
			InstitutionOwnership struct {
				OwnershipList []struct {
					Organization string     `json:"organization"`
					ReportDate   yahooValue `json:"reportDate"`
					PctHeld      yahooValue `json:"pctHeld"`
					Position     yahooValue `json:"position"`
					Value        yahooValue `json:"value"`
				} `json:"ownershipList"`
			} `json:"institutionOwnership"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

// FetchFinancials returns valuation, trading and growth metrics plus institutional holders.
func (f *YahooFetcher) FetchFinancials(ctx context.Context, symbol string) (*model.FinancialSnapshot, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		f.BaseURL, url.PathEscape(symbol), quoteSummaryModules)

	var qs yahooQuoteSummary
	if err := f.get(ctx, u, &qs); err != nil {
		return nil, err
	}
	if qs.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", qs.QuoteSummary.Error.Description)
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no summary returned")
	}

	r := qs.QuoteSummary.Result[0]
	snap := &model.FinancialSnapshot{
		Symbol: symbol,
		General: model.GeneralMetrics{
			MarketCap:        r.SummaryDetail.MarketCap.float(),
			EnterpriseValue:  r.DefaultKeyStatistics.EnterpriseValue.float(),
			ForwardPE:        r.DefaultKeyStatistics.ForwardPE.float(),
			PEGRatio:         r.DefaultKeyStatistics.PEGRatio.float(),
			DividendYieldPct: r.SummaryDetail.DividendYield.pct(),
		},
		Trading: model.TradingMetrics{
			Beta:      r.SummaryDetail.Beta.float(),
			High52w:   r.SummaryDetail.FiftyTwoWeekHigh.float(),
			Low52w:    r.SummaryDetail.FiftyTwoWeekLow.float(),
			AvgVolume: r.SummaryDetail.AverageVolume.float(),
		},
		Fundamentals: model.FundamentalMetrics{
			ReturnOnEquityPct:  r.FinancialData.ReturnOnEquity.pct(),
			ProfitMarginPct:    r.FinancialData.ProfitMargins.pct(),
			OperatingMarginPct: r.FinancialData.OperatingMargins.pct(),
			CurrentRatio:       r.FinancialData.CurrentRatio.float(),
		},
		Growth: model.GrowthMetrics{
			RevenueGrowthPct:  r.FinancialData.RevenueGrowth.pct(),
			EarningsGrowthPct: r.FinancialData.EarningsGrowth.pct(),
		},
		FetchedAt: time.Now(),
	}

	for _, o := range r.InstitutionOwnership.OwnershipList {
		h := model.Holder{
			Name:    o.Organization,
			Value:   o.Value.float(),
			PctHeld: o.PctHeld.pct(),
		}
		if o.Position.Raw != nil {
			h.Shares = int64(*o.Position.Raw)
		}
		if o.ReportDate.Raw != nil {
			h.DateReported = time.Unix(int64(*o.ReportDate.Raw), 0).UTC()
		}
		snap.Holders = append(snap.Holders, h)
	}
	return snap, nil
}
