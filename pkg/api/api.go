// Package api defines the request and response messages of the tripsplit
// RPC services. Messages are plain structs encoded as JSON with camelCase
// field names. Money travels as exact decimal strings ("12.50") and
// timestamps as Unix milliseconds.
package api

// User is a person as other trip members see them.
type User struct {
	Id          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Member is a trip member with the time they joined.
type Member struct {
	UserId      string `json:"userId"`
	DisplayName string `json:"displayName"`
	JoinedAt    int64  `json:"joinedAt"`
}

// Trip is a group of users sharing bills.
type Trip struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	JoinCode  string `json:"joinCode"`
	CreatorId string `json:"creatorId"`
	CreatedAt int64  `json:"createdAt"`
	// Members is only populated by GetTrip.
	Members []*Member `json:"members,omitempty"`
}

// Bill is one expense of a trip.
type Bill struct {
	Id          string `json:"id"`
	TripId      string `json:"tripId"`
	Name        string `json:"name"`
	TotalAmount string `json:"totalAmount"`
	// BillType is "even" or "itemized".
	BillType  string `json:"billType"`
	CreatorId string `json:"creatorId"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// BillItem is a line item of an itemized bill.
type BillItem struct {
	Id        string  `json:"id"`
	BillId    string  `json:"billId"`
	Name      string  `json:"name"`
	UnitPrice string  `json:"unitPrice"`
	Quantity  int32   `json:"quantity"`
	Cost      string  `json:"cost"`
	Claimants []*User `json:"claimants"`
}

// ItemShare is one user's portion of one item.
type ItemShare struct {
	ItemId string `json:"itemId"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Share is what one user owes for a bill.
type Share struct {
	UserId      string       `json:"userId"`
	DisplayName string       `json:"displayName"`
	Amount      string       `json:"amount"`
	Items       []*ItemShare `json:"items,omitempty"`
}

// Split is the computed division of a bill.
type Split struct {
	BillType   string   `json:"billType"`
	PerPerson  string   `json:"perPerson"`
	Shares     []*Share `json:"shares"`
	Assigned   string   `json:"assigned"`
	Unassigned string   `json:"unassigned"`
}

// MemberTotal is a member's owed amount across a trip.
type MemberTotal struct {
	UserId      string `json:"userId"`
	DisplayName string `json:"displayName"`
	TotalOwed   string `json:"totalOwed"`
	BillCount   int32  `json:"billCount"`
}
