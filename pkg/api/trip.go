package api

type CreateTripRequest struct {
	Name       string `json:"name"`
	JoinSecret string `json:"joinSecret"`
}

type CreateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type JoinTripRequest struct {
	JoinCode   string `json:"joinCode"`
	JoinSecret string `json:"joinSecret"`
}

type JoinTripResponse struct {
	Trip *Trip `json:"trip"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []*Trip `json:"trips"`
}

type GetTripRequest struct {
	TripId string `json:"tripId"`
}

type GetTripResponse struct {
	Trip *Trip `json:"trip"`
}

type DeleteTripRequest struct {
	TripId string `json:"tripId"`
}

type DeleteTripResponse struct{}

type GetTripSummaryRequest struct {
	TripId string `json:"tripId"`
}

type GetTripSummaryResponse struct {
	TripId    string `json:"tripId"`
	BillCount int32  `json:"billCount"`
	// GrandTotal is the sum of all bill totals.
	GrandTotal string         `json:"grandTotal"`
	Totals     []*MemberTotal `json:"totals"`
	// Unassigned is the cost of unclaimed items across itemized bills.
	Unassigned string `json:"unassigned"`
}
