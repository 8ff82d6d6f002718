package models

// Asset represents a tracked asset record
type Asset struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Model        string  `json:"model"`
	Condition    string  `json:"condition"`
	LastActivity *string `json:"last_activity"`
	Status       string  `json:"status"`
	Location     string  `json:"location"`
}

// AssetInput is the request body for creating or replacing an asset.
// Every field is overwritten on update; there is no partial patch.
type AssetInput struct {
	Name         string  `json:"name" validate:"required"`
	Model        string  `json:"model" validate:"required"`
	Condition    string  `json:"condition" validate:"required"`
	LastActivity *string `json:"last_activity,omitempty"`
	Status       string  `json:"status" validate:"required"`
	Location     string  `json:"location" validate:"required"`
}

// ToAsset builds the stored representation of the input under the given id
func (in AssetInput) ToAsset(id int64) Asset {
	return Asset{
		ID:           id,
		Name:         in.Name,
		Model:        in.Model,
		Condition:    in.Condition,
		LastActivity: in.LastActivity,
		Status:       in.Status,
		Location:     in.Location,
	}
}

// MessageResponse is the acknowledgment body returned by write endpoints
type MessageResponse struct {
	Message string `json:"message"`
	ID      *int64 `json:"id,omitempty"`
}
