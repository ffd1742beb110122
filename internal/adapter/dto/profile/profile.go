package profile

// ProfileResponse is the public shape of an assignee candidate
type ProfileResponse struct {
	ID          string  `json:"id"`
	FullName    *string `json:"full_name"`
	Username    *string `json:"username"`
	DisplayName string  `json:"display_name"`
}

// SuggestResponse lists assignee suggestions
type SuggestResponse struct {
	Profiles []*ProfileResponse `json:"profiles"`
}
