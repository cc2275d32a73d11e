package dto

// DeviceExchangeRequest 匿名设备换取档案令牌
type DeviceExchangeRequest struct {
	DeviceID string `json:"device_id" vd:"len($)>0"`
}

// TokenResponse 令牌响应
type TokenResponse struct {
	ProfileID    string `json:"profile_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" vd:"len($)>0"`
}
