package httpapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/JeyzDFoo/brownclaw/internal/common"
	"github.com/JeyzDFoo/brownclaw/internal/hydro"
	"github.com/JeyzDFoo/brownclaw/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *hydro.Service, catalog hydro.StationCatalog, logger *logrus.Logger) {
	v1 := app.Group("/api/v1")

	v1.Get("/stations", func(c *fiber.Ctx) error {
		var req stationsQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		stations, err := catalog.ListStations(c.UserContext(), req.Province, req.Limit)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "station catalog unavailable")
		}

		if req.Search != "" {
			terms := strings.Fields(req.Search)
			filtered := make([]hydro.Station, 0, len(stations))
			for _, s := range stations {
				if common.ContainsAny(s.Name, terms...) || common.ContainsAny(s.Number, terms...) {
					filtered = append(filtered, s)
				}
			}
			stations = filtered
		}

		return c.JSON(fiber.Map{
			"stations": stations,
			"count":    len(stations),
		})
	})

	v1.Get("/stations/:id/timeline", func(c *fiber.Ctx) error {
		stationID := c.Params("id")

		var req timelineQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		opts, err := req.toOptions()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		timeline, err := service.GetCombinedTimeline(c.UserContext(), stationID, opts)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "no hydrometric source available")
		}

		response := fiber.Map{
			"stationId":    timeline.StationID,
			"records":      timeline.Records,
			"gap":          timeline.Gap,
			"availability": timeline.Availability,
		}

		// Station metadata is decoration; the timeline stands on its own.
		if station, err := catalog.GetStation(c.UserContext(), stationID); err == nil {
			response["station"] = station
		} else if !errors.Is(err, hydro.ErrStationNotFound) {
			logger.WithError(err).WithField("station", stationID).Debug("station lookup failed")
		}

		return c.JSON(response)
	})

	v1.Get("/stations/:id/latest", func(c *fiber.Ctx) error {
		stationID := c.Params("id")

		snapshot, err := service.GetLatest(stationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no refreshed snapshot for station")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load snapshot")
		}

		return c.JSON(snapshot)
	})
}

// timelineQuery holds the optional historical window bounds.
type timelineQuery struct {
	Start string `validate:"omitempty,datetime=2006-01-02"`
	End   string `validate:"omitempty,datetime=2006-01-02"`
}

func (q *timelineQuery) bind(c *fiber.Ctx) error {
	q.Start = c.Query("start")
	q.End = c.Query("end")
	return validate.Struct(q)
}

func (q *timelineQuery) toOptions() (hydro.TimelineOptions, error) {
	var opts hydro.TimelineOptions

	if q.Start != "" {
		start, err := hydro.ParseDate(q.Start)
		if err != nil {
			return opts, err
		}
		opts.Start = start
	}
	if q.End != "" {
		end, err := hydro.ParseDate(q.End)
		if err != nil {
			return opts, err
		}
		opts.End = end
	}
	if !opts.Start.IsZero() && !opts.End.IsZero() && opts.End.Before(opts.Start.Time) {
		return opts, errors.New("end must not be before start")
	}

	return opts, nil
}

// stationsQuery holds query parameters for the station catalog endpoint.
type stationsQuery struct {
	Province string `validate:"omitempty,alpha,len=2"`
	Search   string
	Limit    int `validate:"omitempty,min=1,max=1000"`
}

func (q *stationsQuery) bind(c *fiber.Ctx) error {
	q.Province = strings.ToUpper(c.Query("province"))
	q.Search = c.Query("search")
	q.Limit = c.QueryInt("limit")
	return validate.Struct(q)
}
