package api

type CreateBillRequest struct {
	TripId      string `json:"tripId"`
	Name        string `json:"name"`
	TotalAmount string `json:"totalAmount"`
	// BillType defaults to "itemized" when empty.
	BillType string `json:"billType"`
}

type CreateBillResponse struct {
	Bill *Bill `json:"bill"`
}

type ListBillsRequest struct {
	TripId string `json:"tripId"`
}

type ListBillsResponse struct {
	Bills []*Bill `json:"bills"`
}

type GetBillRequest struct {
	BillId string `json:"billId"`
}

type GetBillResponse struct {
	Bill *Bill `json:"bill"`
	// Items is empty for even bills.
	Items []*BillItem `json:"items"`
	// Participants is empty for itemized bills.
	Participants []*User `json:"participants"`
	Split        *Split  `json:"split"`
	// MyShare is what the caller owes for this bill.
	MyShare string `json:"myShare"`
}

type UpdateBillRequest struct {
	BillId      string `json:"billId"`
	Name        string `json:"name"`
	TotalAmount string `json:"totalAmount"`
	// BillType keeps the current type when empty.
	BillType string `json:"billType,omitempty"`
}

type UpdateBillResponse struct {
	Bill *Bill `json:"bill"`
}

type DeleteBillRequest struct {
	BillId string `json:"billId"`
}

type DeleteBillResponse struct{}

type JoinEvenSplitRequest struct {
	BillId string `json:"billId"`
}

type JoinEvenSplitResponse struct {
	Participants []*User `json:"participants"`
}

type LeaveEvenSplitRequest struct {
	BillId string `json:"billId"`
}

type LeaveEvenSplitResponse struct {
	Participants []*User `json:"participants"`
}

type CreateItemRequest struct {
	BillId    string `json:"billId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	// Quantity defaults to 1 when zero.
	Quantity int32 `json:"quantity"`
}

type CreateItemResponse struct {
	Item *BillItem `json:"item"`
}

type UpdateItemRequest struct {
	ItemId    string `json:"itemId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int32  `json:"quantity"`
}

type UpdateItemResponse struct {
	Item *BillItem `json:"item"`
}

type DeleteItemRequest struct {
	ItemId string `json:"itemId"`
}

type DeleteItemResponse struct{}

type ClaimItemRequest struct {
	ItemId string `json:"itemId"`
}

type ClaimItemResponse struct {
	Item *BillItem `json:"item"`
}

type UnclaimItemRequest struct {
	ItemId string `json:"itemId"`
}

type UnclaimItemResponse struct {
	Item *BillItem `json:"item"`
}

type ListMyItemsRequest struct {
	BillId string `json:"billId"`
}

type ListMyItemsResponse struct {
	Items []*BillItem `json:"items"`
	// Owed is the caller's share of the claimed items.
	Owed string `json:"owed"`
}
