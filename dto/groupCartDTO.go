package dto

type CreateGroupCartRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Type    string `json:"type"`
}

type UpdateGroupCartRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type JoinGroupCartRequest struct {
	InviteCode string `json:"inviteCode"`
}
