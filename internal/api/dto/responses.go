package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// AccountResponse represents an account in API responses. Balance is a
// decimal string to keep money values exact in JSON.
type AccountResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	InstitutionName    string `json:"institution_name,omitempty"`
	AccountNumberLast4 string `json:"account_number_last4,omitempty"`
	AccountType        string `json:"account_type"`
	IsManual           bool   `json:"is_manual"`
	Balance            string `json:"balance"`
	Currency           string `json:"currency"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

// AccountListResponse is returned when listing accounts.
type AccountListResponse struct {
	Accounts   []AccountResponse `json:"accounts"`
	TotalCount int               `json:"total_count"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

// MatchResponse is one proposed manual/linked pair.
type MatchResponse struct {
	ManualAccount AccountResponse `json:"manual_account"`
	LinkedAccount AccountResponse `json:"linked_account"`
	Score         int             `json:"score"`
	Reasons       []string        `json:"reasons"`
}

// MatchListResponse is returned when listing proposed matches.
type MatchListResponse struct {
	Matches []MatchResponse `json:"matches"`
	Count   int             `json:"count"`
}

// BestMatchResponse wraps the strongest candidate for one manual
// account. Match is null when nothing scores above the threshold.
type BestMatchResponse struct {
	Match *MatchResponse `json:"match"`
}

// SuggestionResponse is one institution-name suggestion.
type SuggestionResponse struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// SuggestListResponse is returned by the institution suggest endpoint.
type SuggestListResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions"`
	Query       string               `json:"query"`
	Count       int                  `json:"count"`
}

// TypeCountResponse is one account-type bucket in the stats response.
type TypeCountResponse struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// StatsResponse is returned by the stats endpoint.
type StatsResponse struct {
	TotalAccounts  int                 `json:"total_accounts"`
	ManualAccounts int                 `json:"manual_accounts"`
	LinkedAccounts int                 `json:"linked_accounts"`
	ByType         []TypeCountResponse `json:"by_type"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
