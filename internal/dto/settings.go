package dto

// UpdateSettingRequest carries the new value for one wallet setting key.
// Values are strings; the settings service validates per key.
type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}
