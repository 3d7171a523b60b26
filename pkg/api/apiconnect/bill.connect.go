package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/pkg/api"
)

// BillServiceName is the fully-qualified name of the BillService service.
const BillServiceName = "tripsplit.v1.BillService"

const (
	BillServiceCreateBillProcedure     = "/tripsplit.v1.BillService/CreateBill"
	BillServiceListBillsProcedure      = "/tripsplit.v1.BillService/ListBills"
	BillServiceGetBillProcedure        = "/tripsplit.v1.BillService/GetBill"
	BillServiceUpdateBillProcedure     = "/tripsplit.v1.BillService/UpdateBill"
	BillServiceDeleteBillProcedure     = "/tripsplit.v1.BillService/DeleteBill"
	BillServiceJoinEvenSplitProcedure  = "/tripsplit.v1.BillService/JoinEvenSplit"
	BillServiceLeaveEvenSplitProcedure = "/tripsplit.v1.BillService/LeaveEvenSplit"
	BillServiceCreateItemProcedure     = "/tripsplit.v1.BillService/CreateItem"
	BillServiceUpdateItemProcedure     = "/tripsplit.v1.BillService/UpdateItem"
	BillServiceDeleteItemProcedure     = "/tripsplit.v1.BillService/DeleteItem"
	BillServiceClaimItemProcedure      = "/tripsplit.v1.BillService/ClaimItem"
	BillServiceUnclaimItemProcedure    = "/tripsplit.v1.BillService/UnclaimItem"
	BillServiceListMyItemsProcedure    = "/tripsplit.v1.BillService/ListMyItems"
)

// BillServiceHandler is implemented by the server side of tripsplit.v1.BillService.
// Items and claims are part of this service since they only exist under a bill.
type BillServiceHandler interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	UpdateBill(context.Context, *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error)
	JoinEvenSplit(context.Context, *connect.Request[api.JoinEvenSplitRequest]) (*connect.Response[api.JoinEvenSplitResponse], error)
	LeaveEvenSplit(context.Context, *connect.Request[api.LeaveEvenSplitRequest]) (*connect.Response[api.LeaveEvenSplitResponse], error)
	CreateItem(context.Context, *connect.Request[api.CreateItemRequest]) (*connect.Response[api.CreateItemResponse], error)
	UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error)
	DeleteItem(context.Context, *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error)
	ClaimItem(context.Context, *connect.Request[api.ClaimItemRequest]) (*connect.Response[api.ClaimItemResponse], error)
	UnclaimItem(context.Context, *connect.Request[api.UnclaimItemRequest]) (*connect.Response[api.UnclaimItemResponse], error)
	ListMyItems(context.Context, *connect.Request[api.ListMyItemsRequest]) (*connect.Response[api.ListMyItemsResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + BillServiceName + "/", route(map[string]http.Handler{
		BillServiceCreateBillProcedure:     connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...),
		BillServiceListBillsProcedure:      connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...),
		BillServiceGetBillProcedure:        connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...),
		BillServiceUpdateBillProcedure:     connect.NewUnaryHandler(BillServiceUpdateBillProcedure, svc.UpdateBill, opts...),
		BillServiceDeleteBillProcedure:     connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...),
		BillServiceJoinEvenSplitProcedure:  connect.NewUnaryHandler(BillServiceJoinEvenSplitProcedure, svc.JoinEvenSplit, opts...),
		BillServiceLeaveEvenSplitProcedure: connect.NewUnaryHandler(BillServiceLeaveEvenSplitProcedure, svc.LeaveEvenSplit, opts...),
		BillServiceCreateItemProcedure:     connect.NewUnaryHandler(BillServiceCreateItemProcedure, svc.CreateItem, opts...),
		BillServiceUpdateItemProcedure:     connect.NewUnaryHandler(BillServiceUpdateItemProcedure, svc.UpdateItem, opts...),
		BillServiceDeleteItemProcedure:     connect.NewUnaryHandler(BillServiceDeleteItemProcedure, svc.DeleteItem, opts...),
		BillServiceClaimItemProcedure:      connect.NewUnaryHandler(BillServiceClaimItemProcedure, svc.ClaimItem, opts...),
		BillServiceUnclaimItemProcedure:    connect.NewUnaryHandler(BillServiceUnclaimItemProcedure, svc.UnclaimItem, opts...),
		BillServiceListMyItemsProcedure:    connect.NewUnaryHandler(BillServiceListMyItemsProcedure, svc.ListMyItems, opts...),
	})
}

// BillServiceClient is a client for the tripsplit.v1.BillService service.
type BillServiceClient interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	UpdateBill(context.Context, *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error)
	JoinEvenSplit(context.Context, *connect.Request[api.JoinEvenSplitRequest]) (*connect.Response[api.JoinEvenSplitResponse], error)
	LeaveEvenSplit(context.Context, *connect.Request[api.LeaveEvenSplitRequest]) (*connect.Response[api.LeaveEvenSplitResponse], error)
	CreateItem(context.Context, *connect.Request[api.CreateItemRequest]) (*connect.Response[api.CreateItemResponse], error)
	UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error)
	DeleteItem(context.Context, *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error)
	ClaimItem(context.Context, *connect.Request[api.ClaimItemRequest]) (*connect.Response[api.ClaimItemResponse], error)
	UnclaimItem(context.Context, *connect.Request[api.UnclaimItemRequest]) (*connect.Response[api.UnclaimItemResponse], error)
	ListMyItems(context.Context, *connect.Request[api.ListMyItemsRequest]) (*connect.Response[api.ListMyItemsResponse], error)
}

// NewBillServiceClient constructs a client for tripsplit.v1.BillService.
// baseURL is the server root, e.g. http://localhost:8080.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &billServiceClient{
		createBill:     connect.NewClient[api.CreateBillRequest, api.CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		listBills:      connect.NewClient[api.ListBillsRequest, api.ListBillsResponse](httpClient, baseURL+BillServiceListBillsProcedure, opts...),
		getBill:        connect.NewClient[api.GetBillRequest, api.GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		updateBill:     connect.NewClient[api.UpdateBillRequest, api.UpdateBillResponse](httpClient, baseURL+BillServiceUpdateBillProcedure, opts...),
		deleteBill:     connect.NewClient[api.DeleteBillRequest, api.DeleteBillResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
		joinEvenSplit:  connect.NewClient[api.JoinEvenSplitRequest, api.JoinEvenSplitResponse](httpClient, baseURL+BillServiceJoinEvenSplitProcedure, opts...),
		leaveEvenSplit: connect.NewClient[api.LeaveEvenSplitRequest, api.LeaveEvenSplitResponse](httpClient, baseURL+BillServiceLeaveEvenSplitProcedure, opts...),
		createItem:     connect.NewClient[api.CreateItemRequest, api.CreateItemResponse](httpClient, baseURL+BillServiceCreateItemProcedure, opts...),
		updateItem:     connect.NewClient[api.UpdateItemRequest, api.UpdateItemResponse](httpClient, baseURL+BillServiceUpdateItemProcedure, opts...),
		deleteItem:     connect.NewClient[api.DeleteItemRequest, api.DeleteItemResponse](httpClient, baseURL+BillServiceDeleteItemProcedure, opts...),
		claimItem:      connect.NewClient[api.ClaimItemRequest, api.ClaimItemResponse](httpClient, baseURL+BillServiceClaimItemProcedure, opts...),
		unclaimItem:    connect.NewClient[api.UnclaimItemRequest, api.UnclaimItemResponse](httpClient, baseURL+BillServiceUnclaimItemProcedure, opts...),
		listMyItems:    connect.NewClient[api.ListMyItemsRequest, api.ListMyItemsResponse](httpClient, baseURL+BillServiceListMyItemsProcedure, opts...),
	}
}

type billServiceClient struct {
	createBill     *connect.Client[api.CreateBillRequest, api.CreateBillResponse]
	listBills      *connect.Client[api.ListBillsRequest, api.ListBillsResponse]
	getBill        *connect.Client[api.GetBillRequest, api.GetBillResponse]
	updateBill     *connect.Client[api.UpdateBillRequest, api.UpdateBillResponse]
	deleteBill     *connect.Client[api.DeleteBillRequest, api.DeleteBillResponse]
	joinEvenSplit  *connect.Client[api.JoinEvenSplitRequest, api.JoinEvenSplitResponse]
	leaveEvenSplit *connect.Client[api.LeaveEvenSplitRequest, api.LeaveEvenSplitResponse]
	createItem     *connect.Client[api.CreateItemRequest, api.CreateItemResponse]
	updateItem     *connect.Client[api.UpdateItemRequest, api.UpdateItemResponse]
	deleteItem     *connect.Client[api.DeleteItemRequest, api.DeleteItemResponse]
	claimItem      *connect.Client[api.ClaimItemRequest, api.ClaimItemResponse]
	unclaimItem    *connect.Client[api.UnclaimItemRequest, api.UnclaimItemResponse]
	listMyItems    *connect.Client[api.ListMyItemsRequest, api.ListMyItemsResponse]
}

func (c *billServiceClient) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *billServiceClient) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *billServiceClient) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *billServiceClient) UpdateBill(ctx context.Context, req *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error) {
	return c.updateBill.CallUnary(ctx, req)
}

func (c *billServiceClient) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *billServiceClient) JoinEvenSplit(ctx context.Context, req *connect.Request[api.JoinEvenSplitRequest]) (*connect.Response[api.JoinEvenSplitResponse], error) {
	return c.joinEvenSplit.CallUnary(ctx, req)
}

func (c *billServiceClient) LeaveEvenSplit(ctx context.Context, req *connect.Request[api.LeaveEvenSplitRequest]) (*connect.Response[api.LeaveEvenSplitResponse], error) {
	return c.leaveEvenSplit.CallUnary(ctx, req)
}

func (c *billServiceClient) CreateItem(ctx context.Context, req *connect.Request[api.CreateItemRequest]) (*connect.Response[api.CreateItemResponse], error) {
	return c.createItem.CallUnary(ctx, req)
}

func (c *billServiceClient) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	return c.updateItem.CallUnary(ctx, req)
}

func (c *billServiceClient) DeleteItem(ctx context.Context, req *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error) {
	return c.deleteItem.CallUnary(ctx, req)
}

func (c *billServiceClient) ClaimItem(ctx context.Context, req *connect.Request[api.ClaimItemRequest]) (*connect.Response[api.ClaimItemResponse], error) {
	return c.claimItem.CallUnary(ctx, req)
}

func (c *billServiceClient) UnclaimItem(ctx context.Context, req *connect.Request[api.UnclaimItemRequest]) (*connect.Response[api.UnclaimItemResponse], error) {
	return c.unclaimItem.CallUnary(ctx, req)
}

func (c *billServiceClient) ListMyItems(ctx context.Context, req *connect.Request[api.ListMyItemsRequest]) (*connect.Response[api.ListMyItemsResponse], error) {
	return c.listMyItems.CallUnary(ctx, req)
}
