package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/pkg/api"
)

// UserServiceName is the fully-qualified name of the UserService service.
const UserServiceName = "tripsplit.v1.UserService"

const UserServiceGetCurrentUserProcedure = "/tripsplit.v1.UserService/GetCurrentUser"

// UserServiceHandler is implemented by the server side of tripsplit.v1.UserService.
type UserServiceHandler interface {
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewUserServiceHandler builds an HTTP handler from the service implementation.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + UserServiceName + "/", route(map[string]http.Handler{
		UserServiceGetCurrentUserProcedure: connect.NewUnaryHandler(UserServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
	})
}

// UserServiceClient is a client for the tripsplit.v1.UserService service.
type UserServiceClient interface {
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewUserServiceClient constructs a client for tripsplit.v1.UserService.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	return &userServiceClient{
		getCurrentUser: connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](
			httpClient, trimBase(baseURL)+UserServiceGetCurrentUserProcedure, clientOptions(opts)...,
		),
	}
}

type userServiceClient struct {
	getCurrentUser *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
}

func (c *userServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}
