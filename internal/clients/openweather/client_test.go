package openweather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, geo, weather string, weatherStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/geo/direct", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "demo" {
			t.Errorf("expected api key in query, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geo))
	})
	mux.HandleFunc("/data/weather", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("expected metric units, got %q", r.URL.Query().Get("units"))
		}
		w.WriteHeader(weatherStatus)
		_, _ = w.Write([]byte(weather))
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func testClient(ts *httptest.Server) *Client {
	return &Client{
		APIKey:         "demo",
		GeoBaseURL:     ts.URL + "/geo",
		WeatherBaseURL: ts.URL + "/data",
		HTTPClient:     ts.Client(),
	}
}

func TestObserveParsesResponses(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t,
		`[{"name":"Osaka","lat":34.69,"lon":135.5,"country":"JP"}]`,
		`{"weather":[{"id":803,"main":"Clouds","description":"broken clouds"}],"main":{"temp":21.4},"name":"Osaka"}`,
		http.StatusOK)

	obs, err := testClient(ts).Observe(context.Background(), "Osaka")
	if err != nil {
		t.Fatalf("observe: %v", err)
	}
	if obs.Code != 803 || obs.Main != "Clouds" || obs.Temperature != 21.4 {
		t.Fatalf("unexpected observation: %+v", obs)
	}
	if obs.Latitude != 34.69 || obs.City != "Osaka" {
		t.Fatalf("unexpected location: %+v", obs)
	}
}

func TestObserveUnknownCity(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, `[]`, `{}`, http.StatusOK)

	_, err := testClient(ts).Observe(context.Background(), "Atlantis")
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
}

func TestObserveUpstreamFailure(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, `[{"name":"Osaka","lat":34.69,"lon":135.5}]`, `{"cod":500}`, http.StatusBadGateway)

	_, err := testClient(ts).Observe(context.Background(), "Osaka")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", statusErr.StatusCode)
	}
}

func TestObserveRequiresAPIKey(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if _, err := c.Observe(context.Background(), "Osaka"); err == nil {
		t.Fatal("expected missing key error")
	}
}
