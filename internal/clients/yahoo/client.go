// Package yahoo provides a client for the Yahoo Finance API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/fundagent/internal/common"
	"github.com/bobmcallan/fundagent/internal/interfaces"
	"github.com/bobmcallan/fundagent/internal/models"
)

const (
	DefaultBaseURL   = "https://query2.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	quoteSummaryModules = "financialData,defaultKeyStatistics,summaryDetail"
	timeseriesTypes     = "annualTotalRevenue,annualNetIncome,annualTotalDebt"
	historyYears        = 6
)

// userAgent is required; Yahoo rejects requests without a browser-like UA.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// yahooValue is Yahoo's wrapped numeric: {"raw": 1.23, "fmt": "1.23"}.
// Absent raw means the metric is not reported.
type yahooValue struct {
	Raw *flexFloat64 `json:"raw"`
}

func (v *yahooValue) ptr() *float64 {
	if v == nil || v.Raw == nil {
		return nil
	}
	f := float64(*v.Raw)
	return &f
}

// Client implements the MarketDataClient interface against Yahoo Finance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo Finance API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo Finance API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return models.ErrTickerNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetFundamentals retrieves the fundamental metric snapshot for a ticker.
// Scalar metrics are required; historical series are best-effort and their
// absence is not an error.
func (c *Client) GetFundamentals(ctx context.Context, ticker string) (*models.MetricSnapshot, error) {
	snapshot, err := c.getQuoteSummary(ctx, ticker)
	if err != nil {
		return nil, err
	}

	revenue, income, debt, err := c.getFinancialHistory(ctx, ticker)
	if err != nil {
		c.logger.Warn().Str("ticker", ticker).Err(err).Msg("Financial history unavailable")
	} else {
		snapshot.HistoricalRevenue = revenue
		snapshot.HistoricalNetIncome = income
		snapshot.HistoricalTotalDebt = debt
	}

	dividends, err := c.getDividendHistory(ctx, ticker)
	if err != nil {
		c.logger.Warn().Str("ticker", ticker).Err(err).Msg("Dividend history unavailable")
	} else {
		snapshot.DividendHistory = dividends
	}

	return snapshot, nil
}

// quoteSummaryResponse represents the API response structure
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData struct {
				ReturnOnEquity    *yahooValue `json:"returnOnEquity"`
				DebtToEquity      *yahooValue `json:"debtToEquity"`
				ProfitMargins     *yahooValue `json:"profitMargins"`
				OperatingCashflow *yahooValue `json:"operatingCashflow"`
				RevenueGrowth     *yahooValue `json:"revenueGrowth"`
				EarningsGrowth    *yahooValue `json:"earningsGrowth"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				ForwardPE   *yahooValue `json:"forwardPE"`
				PEGRatio    *yahooValue `json:"pegRatio"`
				PriceToBook *yahooValue `json:"priceToBook"`
				TrailingEPS *yahooValue `json:"trailingEps"`
			} `json:"defaultKeyStatistics"`
			SummaryDetail struct {
				TrailingPE    *yahooValue `json:"trailingPE"`
				DividendYield *yahooValue `json:"dividendYield"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (c *Client) getQuoteSummary(ctx context.Context, ticker string) (*models.MetricSnapshot, error) {
	params := url.Values{}
	params.Set("modules", quoteSummaryModules)

	var resp quoteSummaryResponse
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(ticker))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.QuoteSummary.Error != nil && resp.QuoteSummary.Error.Code == "Not Found" {
		return nil, models.ErrTickerNotFound
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, models.ErrTickerNotFound
	}

	r := resp.QuoteSummary.Result[0]
	return &models.MetricSnapshot{
		ROE:               r.FinancialData.ReturnOnEquity.ptr(),
		DebtToEquity:      r.FinancialData.DebtToEquity.ptr(),
		ProfitMargins:     r.FinancialData.ProfitMargins.ptr(),
		PERatio:           r.SummaryDetail.TrailingPE.ptr(),
		ForwardPE:         r.DefaultKeyStatistics.ForwardPE.ptr(),
		PEGRatio:          r.DefaultKeyStatistics.PEGRatio.ptr(),
		PBRatio:           r.DefaultKeyStatistics.PriceToBook.ptr(),
		EPS:               r.DefaultKeyStatistics.TrailingEPS.ptr(),
		DividendYield:     r.SummaryDetail.DividendYield.ptr(),
		RevenueGrowth:     r.FinancialData.RevenueGrowth.ptr(),
		EPSGrowth:         r.FinancialData.EarningsGrowth.ptr(),
		OperatingCashFlow: r.FinancialData.OperatingCashflow.ptr(),
	}, nil
}

// timeseriesResponse represents the fundamentals-timeseries API response
type timeseriesResponse struct {
	Timeseries struct {
		Result []struct {
			Meta struct {
				Type []string `json:"type"`
			} `json:"meta"`
			AnnualTotalRevenue []*timeseriesPoint `json:"annualTotalRevenue"`
			AnnualNetIncome    []*timeseriesPoint `json:"annualNetIncome"`
			AnnualTotalDebt    []*timeseriesPoint `json:"annualTotalDebt"`
		} `json:"result"`
	} `json:"timeseries"`
}

type timeseriesPoint struct {
	AsOfDate      string      `json:"asOfDate"`
	ReportedValue *yahooValue `json:"reportedValue"`
}

func (c *Client) getFinancialHistory(ctx context.Context, ticker string) (revenue, income, debt models.HistoricalSeries, err error) {
	now := time.Now()
	params := url.Values{}
	params.Set("type", timeseriesTypes)
	params.Set("period1", strconv.FormatInt(now.AddDate(-historyYears, 0, 0).Unix(), 10))
	params.Set("period2", strconv.FormatInt(now.Unix(), 10))

	var resp timeseriesResponse
	path := fmt.Sprintf("/ws/fundamentals-timeseries/v1/finance/timeseries/%s", url.PathEscape(ticker))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, nil, nil, err
	}

	revenue = make(models.HistoricalSeries)
	income = make(models.HistoricalSeries)
	debt = make(models.HistoricalSeries)

	for _, result := range resp.Timeseries.Result {
		collectPoints(revenue, result.AnnualTotalRevenue)
		collectPoints(income, result.AnnualNetIncome)
		collectPoints(debt, result.AnnualTotalDebt)
	}

	return revenue, income, debt, nil
}

func collectPoints(series models.HistoricalSeries, points []*timeseriesPoint) {
	for _, p := range points {
		if p == nil || p.ReportedValue == nil || p.ReportedValue.Raw == nil {
			continue
		}
		series[p.AsOfDate] = float64(*p.ReportedValue.Raw)
	}
}

// chartResponse carries the dividend events from the chart API
type chartResponse struct {
	Chart struct {
		Result []struct {
			Events struct {
				Dividends map[string]struct {
					Amount flexFloat64 `json:"amount"`
					Date   int64       `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
	} `json:"chart"`
}

// getDividendHistory aggregates dividend payments per calendar year.
func (c *Client) getDividendHistory(ctx context.Context, ticker string) (models.HistoricalSeries, error) {
	params := url.Values{}
	params.Set("range", fmt.Sprintf("%dy", historyYears))
	params.Set("interval", "1mo")
	params.Set("events", "div")

	var resp chartResponse
	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(ticker))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	history := make(models.HistoricalSeries)
	for _, result := range resp.Chart.Result {
		for _, div := range result.Events.Dividends {
			year := time.Unix(div.Date, 0).UTC().Format("2006")
			history[year] += float64(div.Amount)
		}
	}

	return history, nil
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
