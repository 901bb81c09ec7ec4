package dto

// Request bodies use the camelCase field names the Mini App's JS sends.

type AuthedRequest struct {
	InitData    string `json:"initData"`
	TzOffsetMin int    `json:"tzOffsetMin"`
}

type AddIntakeRequest struct {
	AuthedRequest
	AmountML int    `json:"amountMl"`
	Category string `json:"category"`
}

type UndoIntakeRequest struct {
	AuthedRequest
	EntryID string `json:"entryId"`
}

type SetGoalRequest struct {
	AuthedRequest
	GoalML int `json:"goalMl"`
}

type SetWeightRequest struct {
	AuthedRequest
	WeightKg int `json:"weightKg"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
