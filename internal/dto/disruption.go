package dto

type TriggerDisruptionRequest struct {
	Scenario string `json:"scenario" validate:"max=64"`
}

type LogEntryResponse struct {
	Time    string `json:"time"`
	Message string `json:"message"`
}

type DecisionCardResponse struct {
	Title   string `json:"title"`
	OptionA string `json:"optionA"`
	OptionB string `json:"optionB"`
	Result  string `json:"result"`
}

type OutcomeDetailsResponse struct {
	NewRouteOriginDC int `json:"new_route_origin_dc,omitempty"`
	OriginalDC       int `json:"original_dc,omitempty"`
	NewDC            int `json:"new_dc,omitempty"`
	NewGroceryDC     int `json:"new_grocery_dc,omitempty"`
	NewGeneralDC     int `json:"new_general_dc,omitempty"`
	DestinationStore int `json:"destination_store,omitempty"`
}

type DispatchOutcomeResponse struct {
	Scenario           string                 `json:"scenario"`
	Decision           string                 `json:"decision"`
	ImpactedShipmentID int                    `json:"impacted_shipment_id"`
	Log                []LogEntryResponse     `json:"log"`
	Details            OutcomeDetailsResponse `json:"details"`
	DecisionCard       DecisionCardResponse   `json:"decision_card"`
}

type RecommendationResponse struct {
	ShipmentID     int    `json:"shipment_id"`
	Priority       string `json:"priority"`
	Recommendation string `json:"recommendation"`
	Rationale      string `json:"rationale"`
}
