package dto

// TokenPair is the success response of the token endpoint. Expiries are unix
// seconds.
type TokenPair struct {
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	AccessTokenExp  int64  `json:"access_token_exp"`
	RefreshTokenExp int64  `json:"refresh_token_exp"`
}
