package dto

type RecommendationItem struct {
	Name string `json:"name"`
}

type RecommendationsRequest struct {
	Items []RecommendationItem `json:"items"`
}

type SmartPackagingRequest struct {
	LocationImage string `json:"locationImage"`
}
