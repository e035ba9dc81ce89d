package calendar

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/shortnote/shortnote-bot/logger"
)

// DefaultCalendarID is the calendar of the authorized account.
const DefaultCalendarID = "primary"

// EventTime is a point in time with the time zone the event is displayed in.
type EventTime struct {
	DateTime string
	TimeZone string
}

// EventRequest is the payload of an event insert. It carries no identifier;
// the remote service assigns one.
type EventRequest struct {
	Summary     string
	Description string
	Location    string
	Start       EventTime
	End         EventTime
	Visibility  string
	EventType   string
}

// Event is an event as returned by the remote service.
type Event struct {
	ID       string
	HTMLLink string
	Summary  string
}

// Service is the subset of the calendar API the bot needs.
//
//go:generate mockgen -source=calendar.go -destination=../tests/mocks/calendar.go -package=mocks
type Service interface {
	InsertEvent(ctx context.Context, req EventRequest) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Factory builds a Service acting on behalf of one authorized caller.
type Factory interface {
	ForTokenSource(ctx context.Context, ts oauth2.TokenSource) (Service, error)
}

type GoogleFactory struct {
	calendarID string
	logger     logger.Logger
	opts       []option.ClientOption
}

// NewGoogleFactory returns a Factory backed by the Google Calendar v3 API.
// Extra client options are appended to every service, which lets tests point
// the client at a local endpoint.
func NewGoogleFactory(calendarID string, log logger.Logger, opts ...option.ClientOption) *GoogleFactory {
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	return &GoogleFactory{calendarID: calendarID, logger: log, opts: opts}
}

func (f *GoogleFactory) ForTokenSource(ctx context.Context, ts oauth2.TokenSource) (Service, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, f.opts...)
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar service: %w", err)
	}
	return &googleService{
		service:    svc,
		calendarID: f.calendarID,
		logger:     f.logger.With("component", "calendar-service", "calendarId", f.calendarID),
	}, nil
}

type googleService struct {
	service    *gcal.Service
	calendarID string
	logger     logger.Logger
}

func (g *googleService) InsertEvent(ctx context.Context, req EventRequest) (*Event, error) {
	g.logger.Debug("creating event",
		"operation", "create-event",
		"eventSummary", req.Summary,
		"eventStart", req.Start.DateTime)

	created, err := g.service.Events.Insert(g.calendarID, toGoogleEvent(req)).Context(ctx).Do()
	if err != nil {
		g.logger.Error("failed to create event in google calendar api", err,
			"operation", "create-event",
			"eventSummary", req.Summary)
		return nil, fmt.Errorf("unable to create event: %w", err)
	}

	g.logger.Info("successfully created event",
		"operation", "create-event",
		"eventId", created.Id)

	return fromGoogleEvent(created), nil
}

func (g *googleService) ListEvents(ctx context.Context) ([]*Event, error) {
	g.logger.Debug("listing events", "operation", "list-events")

	var events []*Event
	err := g.service.Events.List(g.calendarID).Context(ctx).Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			events = append(events, fromGoogleEvent(item))
		}
		return nil
	})
	if err != nil {
		g.logger.Error("failed to retrieve events from google calendar api", err,
			"operation", "list-events")
		return nil, fmt.Errorf("unable to retrieve events: %w", err)
	}

	g.logger.Info("successfully retrieved events",
		"operation", "list-events",
		"eventCount", len(events))

	return events, nil
}

func (g *googleService) DeleteEvent(ctx context.Context, eventID string) error {
	g.logger.Debug("deleting event",
		"operation", "delete-event",
		"eventId", eventID)

	if err := g.service.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		g.logger.Error("failed to delete event from google calendar api", err,
			"operation", "delete-event",
			"eventId", eventID)
		return fmt.Errorf("unable to delete event: %w", err)
	}

	return nil
}

func toGoogleEvent(req EventRequest) *gcal.Event {
	return &gcal.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Location:    req.Location,
		Start: &gcal.EventDateTime{
			DateTime: req.Start.DateTime,
			TimeZone: req.Start.TimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: req.End.DateTime,
			TimeZone: req.End.TimeZone,
		},
		Visibility: req.Visibility,
		EventType:  req.EventType,
	}
}

func fromGoogleEvent(e *gcal.Event) *Event {
	return &Event{
		ID:       e.Id,
		HTMLLink: e.HtmlLink,
		Summary:  e.Summary,
	}
}
