package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"CapybaraPetService/config"
	"CapybaraPetService/internal/models"
)

const (
	defaultGeoBaseURL     = "https://api.openweathermap.org/geo/1.0"
	defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	defaultTimeout        = 10 * time.Second
)

// ErrCityNotFound геокодер не вернул ни одного результата
var ErrCityNotFound = errors.New("city not found")

// StatusError ответ API с кодом вне 2xx
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openweather %s request failed with status %d", e.Endpoint, e.StatusCode)
}

// Client обращается к геокодеру и API текущей погоды OpenWeather
type Client struct {
	APIKey         string
	GeoBaseURL     string
	WeatherBaseURL string
	Units          string
	HTTPClient     *http.Client
}

// NewClient создает клиента по настройкам погоды
func NewClient(cfg config.WeatherConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		APIKey:         cfg.APIKey,
		GeoBaseURL:     cfg.GeoBaseURL,
		WeatherBaseURL: cfg.WeatherBaseURL,
		Units:          cfg.Units,
		HTTPClient:     &http.Client{Timeout: timeout},
	}
}

// Location координаты города
type Location struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

type currentResponse struct {
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Name string `json:"name"`
}

// Geocode находит координаты города
func (c *Client) Geocode(ctx context.Context, city string) (Location, error) {
	query := url.Values{}
	query.Set("q", city)
	query.Set("limit", "1")
	query.Set("appid", c.APIKey)

	var locations []Location
	if err := c.getJSON(ctx, "geocode", baseURL(c.GeoBaseURL, defaultGeoBaseURL)+"/direct?"+query.Encode(), &locations); err != nil {
		return Location{}, err
	}
	if len(locations) == 0 {
		return Location{}, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}
	return locations[0], nil
}

// Current возвращает текущую погоду по координатам
func (c *Client) Current(ctx context.Context, lat, lon float64) (models.WeatherObservation, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("appid", c.APIKey)
	units := c.Units
	if units == "" {
		units = "metric"
	}
	query.Set("units", units)

	var parsed currentResponse
	if err := c.getJSON(ctx, "weather", baseURL(c.WeatherBaseURL, defaultWeatherBaseURL)+"/weather?"+query.Encode(), &parsed); err != nil {
		return models.WeatherObservation{}, err
	}
	if len(parsed.Weather) == 0 {
		return models.WeatherObservation{}, errors.New("openweather response has no weather conditions")
	}

	return models.WeatherObservation{
		City:        parsed.Name,
		Latitude:    lat,
		Longitude:   lon,
		Code:        parsed.Weather[0].ID,
		Main:        parsed.Weather[0].Main,
		Description: parsed.Weather[0].Description,
		Temperature: parsed.Main.Temp,
	}, nil
}

// Observe геокодирует город и запрашивает текущую погоду
func (c *Client) Observe(ctx context.Context, city string) (models.WeatherObservation, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return models.WeatherObservation{}, errors.New("missing OpenWeather API key")
	}

	location, err := c.Geocode(ctx, city)
	if err != nil {
		return models.WeatherObservation{}, err
	}

	observation, err := c.Current(ctx, location.Lat, location.Lon)
	if err != nil {
		return models.WeatherObservation{}, err
	}
	observation.City = city
	return observation, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create openweather %s request: %w", endpoint, err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute openweather %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read openweather %s response: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode openweather %s response: %w", endpoint, err)
	}
	return nil
}

func baseURL(value, fallback string) string {
	value = strings.TrimRight(strings.TrimSpace(value), "/")
	if value == "" {
		return fallback
	}
	return value
}
