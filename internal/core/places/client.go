// Package places 查詢城市中供應某道菜的餐廳
package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dish-resolver/internal/infrastructure/config"
	"dish-resolver/internal/metrics"
	"dish-resolver/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrDisabled 未設定 API key 或未啟用查詢
var ErrDisabled = errors.New("places lookup disabled")

// ErrUnavailable 上游失敗或斷路器開啟
var ErrUnavailable = errors.New("places lookup unavailable")

const mapsPlaceURL = "https://www.google.com/maps/place/?q=place_id:"

// Place 餐廳資訊
type Place struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Rating  string `json:"rating"`
	MapsURL string `json:"maps_url"`
}

// textSearchResponse 文字搜尋 API 回應
type textSearchResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Results      []placeResult `json:"results"`
}

type placeResult struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating"`
	PlaceID          string   `json:"place_id"`
}

// Client 附近餐廳查詢客戶端
type Client struct {
	client     *resty.Client
	config     config.PlacesConfig
	breaker    *gobreaker.CircuitBreaker[[]Place]
	maxResults int
}

// NewClient 創建查詢客戶端
func NewClient(cfg config.PlacesConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 3
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	breaker := gobreaker.NewCircuitBreaker[[]Place](gobreaker.Settings{
		Name:        "places",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenDelay,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			common.LogWarn("斷路器狀態變更",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		client:     client,
		config:     cfg,
		breaker:    breaker,
		maxResults: maxResults,
	}
}

// Enabled 是否可以查詢
func (c *Client) Enabled() bool {
	return c != nil && c.config.Enabled && c.config.APIKey != ""
}

// Nearby 查詢城市中供應該道菜的餐廳，最多回傳 MaxResults 筆
func (c *Client) Nearby(ctx context.Context, dish, city string) ([]Place, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	start := time.Now()
	places, err := c.breaker.Execute(func() ([]Place, error) {
		return c.textSearch(ctx, dish+" in "+city)
	})
	if err != nil {
		result := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "open"
		}
		metrics.RecordPlaces(result)
		common.LogError("附近餐廳查詢失敗",
			zap.String("dish", dish),
			zap.String("city", city),
			zap.Duration("耗時", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(places) == 0 {
		metrics.RecordPlaces("empty")
	} else {
		metrics.RecordPlaces("ok")
	}
	common.LogInfo("附近餐廳查詢完成",
		zap.String("dish", dish),
		zap.String("city", city),
		zap.Int("結果數", len(places)),
		zap.Duration("耗時", time.Since(start)),
	)
	return places, nil
}

func (c *Client) textSearch(ctx context.Context, query string) ([]Place, error) {
	var result textSearchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query": query,
			"key":   c.config.APIKey,
		}).
		SetResult(&result).
		Get("/textsearch/json")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("places API error: status=%d", resp.StatusCode())
	}

	switch result.Status {
	case "", "OK", "ZERO_RESULTS":
	default:
		return nil, fmt.Errorf("places API error: %s %s", result.Status, result.ErrorMessage)
	}

	places := make([]Place, 0, c.maxResults)
	for _, r := range result.Results {
		if len(places) >= c.maxResults {
			break
		}
		p := Place{
			Name:    r.Name,
			Address: r.FormattedAddress,
			Rating:  "N/A",
			MapsURL: mapsPlaceURL + url.QueryEscape(r.PlaceID),
		}
		if p.Address == "" {
			p.Address = "Address not available"
		}
		if r.Rating != nil {
			p.Rating = fmt.Sprintf("%.1f", *r.Rating)
		}
		places = append(places, p)
	}
	return places, nil
}
