package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/pkg/api"
)

// TripServiceName is the fully-qualified name of the TripService service.
const TripServiceName = "tripsplit.v1.TripService"

const (
	TripServiceCreateTripProcedure     = "/tripsplit.v1.TripService/CreateTrip"
	TripServiceJoinTripProcedure       = "/tripsplit.v1.TripService/JoinTrip"
	TripServiceListTripsProcedure      = "/tripsplit.v1.TripService/ListTrips"
	TripServiceGetTripProcedure        = "/tripsplit.v1.TripService/GetTrip"
	TripServiceDeleteTripProcedure     = "/tripsplit.v1.TripService/DeleteTrip"
	TripServiceGetTripSummaryProcedure = "/tripsplit.v1.TripService/GetTripSummary"
)

// TripServiceHandler is implemented by the server side of tripsplit.v1.TripService.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	JoinTrip(context.Context, *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error)
	GetTripSummary(context.Context, *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error)
}

// NewTripServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + TripServiceName + "/", route(map[string]http.Handler{
		TripServiceCreateTripProcedure:     connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...),
		TripServiceJoinTripProcedure:       connect.NewUnaryHandler(TripServiceJoinTripProcedure, svc.JoinTrip, opts...),
		TripServiceListTripsProcedure:      connect.NewUnaryHandler(TripServiceListTripsProcedure, svc.ListTrips, opts...),
		TripServiceGetTripProcedure:        connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...),
		TripServiceDeleteTripProcedure:     connect.NewUnaryHandler(TripServiceDeleteTripProcedure, svc.DeleteTrip, opts...),
		TripServiceGetTripSummaryProcedure: connect.NewUnaryHandler(TripServiceGetTripSummaryProcedure, svc.GetTripSummary, opts...),
	})
}

// TripServiceClient is a client for the tripsplit.v1.TripService service.
type TripServiceClient interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	JoinTrip(context.Context, *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error)
	GetTripSummary(context.Context, *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error)
}

// NewTripServiceClient constructs a client for tripsplit.v1.TripService.
// baseURL is the server root, e.g. http://localhost:8080.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TripServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &tripServiceClient{
		createTrip:     connect.NewClient[api.CreateTripRequest, api.CreateTripResponse](httpClient, baseURL+TripServiceCreateTripProcedure, opts...),
		joinTrip:       connect.NewClient[api.JoinTripRequest, api.JoinTripResponse](httpClient, baseURL+TripServiceJoinTripProcedure, opts...),
		listTrips:      connect.NewClient[api.ListTripsRequest, api.ListTripsResponse](httpClient, baseURL+TripServiceListTripsProcedure, opts...),
		getTrip:        connect.NewClient[api.GetTripRequest, api.GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, opts...),
		deleteTrip:     connect.NewClient[api.DeleteTripRequest, api.DeleteTripResponse](httpClient, baseURL+TripServiceDeleteTripProcedure, opts...),
		getTripSummary: connect.NewClient[api.GetTripSummaryRequest, api.GetTripSummaryResponse](httpClient, baseURL+TripServiceGetTripSummaryProcedure, opts...),
	}
}

type tripServiceClient struct {
	createTrip     *connect.Client[api.CreateTripRequest, api.CreateTripResponse]
	joinTrip       *connect.Client[api.JoinTripRequest, api.JoinTripResponse]
	listTrips      *connect.Client[api.ListTripsRequest, api.ListTripsResponse]
	getTrip        *connect.Client[api.GetTripRequest, api.GetTripResponse]
	deleteTrip     *connect.Client[api.DeleteTripRequest, api.DeleteTripResponse]
	getTripSummary *connect.Client[api.GetTripSummaryRequest, api.GetTripSummaryResponse]
}

func (c *tripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) JoinTrip(ctx context.Context, req *connect.Request[api.JoinTripRequest]) (*connect.Response[api.JoinTripResponse], error) {
	return c.joinTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	return c.deleteTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTripSummary(ctx context.Context, req *connect.Request[api.GetTripSummaryRequest]) (*connect.Response[api.GetTripSummaryResponse], error) {
	return c.getTripSummary.CallUnary(ctx, req)
}
