package models

import (
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/miniclay/miniclay-server/pkg/config"
)

// AuthTokenModel mints the Video SDK credentials the bot presents when it
// joins a session's media stream. Verification happens on the provider
// side; we only sign.
type AuthTokenModel struct {
	app *config.AppConfig
}

func NewAuthTokenModel(app *config.AppConfig) *AuthTokenModel {
	return &AuthTokenModel{
		app: app,
	}
}

// SdkTokenClaims are the provider-defined Video SDK claims. role_type 0 is
// a plain participant.
type SdkTokenClaims struct {
	AppKey       string `json:"app_key"`
	Tpc          string `json:"tpc"`
	RoleType     int    `json:"role_type"`
	UserIdentity string `json:"user_identity"`
	SessionKey   string `json:"session_key"`
}

// GenerateSdkJwt mints a fresh HS256 token scoped to the given session,
// valid for the configured window from issuance.
func (a *AuthTokenModel) GenerateSdkJwt(sessionId string) (string, error) {
	sig, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: []byte(a.app.ZoomInfo.ClientSecret)},
		(&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return "", err
	}

	now := time.Now()
	cl := &jwt.Claims{
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(*a.app.ZoomInfo.TokenValidity)),
	}
	c := &SdkTokenClaims{
		AppKey:       a.app.ZoomInfo.ClientId,
		Tpc:          sessionId,
		RoleType:     0,
		UserIdentity: a.app.BotSettings.Name,
		SessionKey:   sessionId,
	}

	return jwt.Signed(sig).Claims(cl).Claims(c).Serialize()
}
