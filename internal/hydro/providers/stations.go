package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/JeyzDFoo/brownclaw/internal/hydro"
	"github.com/JeyzDFoo/brownclaw/internal/observability"
)

const stationsEndpoint = "stations"

// StationCatalog implements hydro.StationCatalog against the GeoMet
// hydrometric-stations collection. Station metadata is stable, so lookups
// go through an LRU cache keyed by query.
type StationCatalog struct {
	name    string
	baseURL string
	httpCfg requestConfig
	circuit *gobreaker.CircuitBreaker
	cache   *lru.Cache
	metrics *observability.Metrics
}

// NewStationCatalog creates a station catalog client with a cache of the
// given size. An empty baseURL selects the public GeoMet API.
func NewStationCatalog(client *http.Client, baseURL string, cacheSize int, logger *logrus.Logger, metrics *observability.Metrics) (*StationCatalog, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cacheSize <= 0 {
		cacheSize = 256
	}

	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create station cache: %w", err)
	}

	return &StationCatalog{
		name:    stationsEndpoint,
		baseURL: baseURL,
		httpCfg: requestConfig{
			client:  client,
			backoff: defaultBackoff,
			logger:  logger,
		},
		circuit: newCircuit(stationsEndpoint),
		cache:   cache,
		metrics: metrics,
	}, nil
}

// stationProperties is the one schema this endpoint is read with.
type stationProperties struct {
	StationNumber string   `json:"STATION_NUMBER"`
	StationName   string   `json:"STATION_NAME"`
	Province      string   `json:"PROV_TERR_STATE_LOC"`
	DrainageArea  *float64 `json:"DRAINAGE_AREA_GROSS"`
	Status        string   `json:"STATUS_EN"`
}

// ListStations returns catalog entries, optionally filtered by province code
// (e.g. "BC"), up to limit.
func (c *StationCatalog) ListStations(ctx context.Context, province string, limit int) ([]hydro.Station, error) {
	if limit <= 0 {
		limit = 500
	}

	key := fmt.Sprintf("list:%s:%d", province, limit)
	if cached, ok := c.cache.Get(key); ok {
		c.metrics.StationCache.WithLabelValues("hit").Inc()
		return cached.([]hydro.Station), nil
	}
	c.metrics.StationCache.WithLabelValues("miss").Inc()

	values := url.Values{}
	values.Set("limit", fmt.Sprintf("%d", limit))
	values.Set("f", "json")
	if province != "" {
		values.Set("PROV_TERR_STATE_LOC", province)
	}

	stations, err := c.fetch(ctx, "", values)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, stations)
	return stations, nil
}

// GetStation looks up one station by number. Returns
// hydro.ErrStationNotFound when the catalog has no such entry.
func (c *StationCatalog) GetStation(ctx context.Context, stationID string) (hydro.Station, error) {
	key := "station:" + stationID
	if cached, ok := c.cache.Get(key); ok {
		c.metrics.StationCache.WithLabelValues("hit").Inc()
		return cached.(hydro.Station), nil
	}
	c.metrics.StationCache.WithLabelValues("miss").Inc()

	values := url.Values{}
	values.Set("STATION_NUMBER", stationID)
	values.Set("limit", "1")
	values.Set("f", "json")

	stations, err := c.fetch(ctx, stationID, values)
	if err != nil {
		return hydro.Station{}, err
	}
	if len(stations) == 0 {
		return hydro.Station{}, fmt.Errorf("station %s: %w", stationID, hydro.ErrStationNotFound)
	}

	c.cache.Add(key, stations[0])
	return stations[0], nil
}

func (c *StationCatalog) fetch(ctx context.Context, stationID string, values url.Values) ([]hydro.Station, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/collections/hydrometric-stations/items?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	began := time.Now()
	resp, err := requestWithRetry(ctx, c.httpCfg, c.circuit, buildRequest)
	c.metrics.UpstreamDuration.WithLabelValues(c.name).Observe(time.Since(began).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(c.name, "error").Inc()
		return nil, &hydro.FetchError{Source: hydro.SourceStations, StationID: stationID, Err: err}
	}
	defer resp.Body.Close()

	var payload featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(c.name, "error").Inc()
		return nil, &hydro.FetchError{
			Source:    hydro.SourceStations,
			StationID: stationID,
			Err:       fmt.Errorf("decode stations response: %w", err),
		}
	}
	c.metrics.UpstreamRequests.WithLabelValues(c.name, "success").Inc()

	stations := make([]hydro.Station, 0, len(payload.Features))
	for _, f := range payload.Features {
		var props stationProperties
		if err := json.Unmarshal(f.Properties, &props); err != nil {
			c.skip("unreadable properties")
			continue
		}
		if props.StationNumber == "" {
			c.skip("missing STATION_NUMBER")
			continue
		}

		station := hydro.Station{
			Number:          props.StationNumber,
			Name:            props.StationName,
			Province:        props.Province,
			DrainageAreaKm2: props.DrainageArea,
			Status:          props.Status,
		}
		if len(f.Geometry.Coordinates) == 2 {
			station.Longitude = f.Geometry.Coordinates[0]
			station.Latitude = f.Geometry.Coordinates[1]
		}
		stations = append(stations, station)
	}

	return stations, nil
}

func (c *StationCatalog) skip(reason string) {
	c.metrics.RecordsSkipped.WithLabelValues(c.name).Inc()
	c.httpCfg.logger.WithField("reason", reason).Debug("skipping station record")
}
