package yahoo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fundagent/internal/models"
)

const quoteSummaryFixture = `{
  "quoteSummary": {
    "result": [{
      "financialData": {
        "returnOnEquity": {"raw": 0.25, "fmt": "25.00%"},
        "debtToEquity": {"raw": 41.5, "fmt": "41.50"},
        "profitMargins": {"raw": 0.253, "fmt": "25.30%"},
        "operatingCashflow": {"raw": 110543000576, "fmt": "110.54B"},
        "revenueGrowth": {"raw": 0.081, "fmt": "8.10%"},
        "earningsGrowth": {"raw": 0.111, "fmt": "11.10%"}
      },
      "defaultKeyStatistics": {
        "forwardPE": {"raw": 26.2},
        "pegRatio": {"raw": 2.1},
        "priceToBook": {"raw": 48.3},
        "trailingEps": {"raw": 6.42}
      },
      "summaryDetail": {
        "trailingPE": {"raw": 29.5},
        "dividendYield": {"raw": 0.0051}
      }
    }],
    "error": null
  }
}`

const timeseriesFixture = `{
  "timeseries": {
    "result": [
      {
        "meta": {"type": ["annualTotalRevenue"]},
        "annualTotalRevenue": [
          {"asOfDate": "2021-09-30", "reportedValue": {"raw": 365817000000}},
          {"asOfDate": "2022-09-30", "reportedValue": {"raw": 394328000000}},
          {"asOfDate": "2023-09-30", "reportedValue": {"raw": 383285000000}},
          {"asOfDate": "2024-09-30", "reportedValue": {"raw": 391035000000}}
        ]
      },
      {
        "meta": {"type": ["annualNetIncome"]},
        "annualNetIncome": [
          {"asOfDate": "2023-09-30", "reportedValue": {"raw": 96995000000}},
          {"asOfDate": "2024-09-30", "reportedValue": {"raw": 93736000000}}
        ]
      },
      {
        "meta": {"type": ["annualTotalDebt"]},
        "annualTotalDebt": [
          {"asOfDate": "2023-09-30", "reportedValue": {"raw": 111088000000}},
          {"asOfDate": "2024-09-30", "reportedValue": null}
        ]
      }
    ]
  }
}`

const chartFixture = `{
  "chart": {
    "result": [{
      "events": {
        "dividends": {
          "1676557800": {"amount": 0.23, "date": 1676557800},
          "1684157400": {"amount": 0.24, "date": 1684157400},
          "1707485400": {"amount": 0.24, "date": 1707485400}
        }
      }
    }]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL), WithRateLimit(1000))
}

func fixtureHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/"):
			w.Write([]byte(quoteSummaryFixture))
		case strings.HasPrefix(r.URL.Path, "/ws/fundamentals-timeseries/"):
			w.Write([]byte(timeseriesFixture))
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			w.Write([]byte(chartFixture))
		default:
			t.Errorf("unexpected request path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestGetFundamentals(t *testing.T) {
	client := newTestClient(t, fixtureHandler(t))

	snapshot, err := client.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	require.NotNil(t, snapshot.ROE)
	assert.Equal(t, 0.25, *snapshot.ROE)
	require.NotNil(t, snapshot.DebtToEquity)
	assert.Equal(t, 41.5, *snapshot.DebtToEquity)
	require.NotNil(t, snapshot.PERatio)
	assert.Equal(t, 29.5, *snapshot.PERatio)
	require.NotNil(t, snapshot.EPS)
	assert.Equal(t, 6.42, *snapshot.EPS)
	require.NotNil(t, snapshot.DividendYield)
	assert.Equal(t, 0.0051, *snapshot.DividendYield)
	require.NotNil(t, snapshot.OperatingCashFlow)
	assert.Equal(t, 110543000576.0, *snapshot.OperatingCashFlow)

	assert.Len(t, snapshot.HistoricalRevenue, 4)
	assert.Equal(t, 391035000000.0, snapshot.HistoricalRevenue["2024-09-30"])
	assert.Len(t, snapshot.HistoricalNetIncome, 2)
	// null reported values are skipped
	assert.Len(t, snapshot.HistoricalTotalDebt, 1)
}

func TestGetFundamentalsDividendAggregation(t *testing.T) {
	client := newTestClient(t, fixtureHandler(t))

	snapshot, err := client.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)

	// two 2023 payments aggregate into one year
	assert.InDelta(t, 0.47, snapshot.DividendHistory["2023"], 1e-9)
	assert.InDelta(t, 0.24, snapshot.DividendHistory["2024"], 1e-9)
}

func TestGetFundamentalsUnknownTicker(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`))
	})

	_, err := client.GetFundamentals(context.Background(), "NOSUCH")
	assert.ErrorIs(t, err, models.ErrTickerNotFound)
}

func TestGetFundamentalsHTTP404(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetFundamentals(context.Background(), "NOSUCH")
	assert.ErrorIs(t, err, models.ErrTickerNotFound)
}

func TestGetFundamentalsServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	})

	_, err := client.GetFundamentals(context.Background(), "AAPL")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestGetFundamentalsHistoryFailureIsNotFatal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/") {
			w.Write([]byte(quoteSummaryFixture))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	snapshot, err := client.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.NotNil(t, snapshot.ROE)
	assert.Empty(t, snapshot.HistoricalRevenue)
	assert.Empty(t, snapshot.DividendHistory)
}

func TestGetFundamentalsSetsUserAgent(t *testing.T) {
	var gotUA string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fixtureHandler(t)(w, r)
	})

	_, err := client.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, userAgent, gotUA)
}

func TestFlexFloat64(t *testing.T) {
	var f flexFloat64
	require.NoError(t, json.Unmarshal([]byte(`1.5`), &f))
	assert.Equal(t, flexFloat64(1.5), f)

	require.NoError(t, json.Unmarshal([]byte(`"2.75"`), &f))
	assert.Equal(t, flexFloat64(2.75), f)

	require.NoError(t, json.Unmarshal([]byte(`"N/A"`), &f))
	assert.Equal(t, flexFloat64(0), f)

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &f))
}
