package models

import (
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/assert"
)

func TestAuthTokenModel_GenerateSdkJwt(t *testing.T) {
	app := newTestAppConfig()
	m := NewAuthTokenModel(app)

	token, err := m.GenerateSdkJwt("123456789")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := jwt.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	assert.NoError(t, err)

	cl := jwt.Claims{}
	custom := SdkTokenClaims{}
	err = parsed.Claims([]byte(app.ZoomInfo.ClientSecret), &cl, &custom)
	assert.NoError(t, err)

	assert.Equal(t, "test-client-id", custom.AppKey)
	assert.Equal(t, "123456789", custom.Tpc)
	assert.Equal(t, "123456789", custom.SessionKey)
	assert.Equal(t, 0, custom.RoleType)
	assert.Equal(t, "Rohan - Sales Exec", custom.UserIdentity)

	assert.WithinDuration(t, time.Now(), cl.IssuedAt.Time(), 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(time.Hour), cl.Expiry.Time(), 5*time.Second)
}

func TestAuthTokenModel_RejectsWrongKey(t *testing.T) {
	app := newTestAppConfig()
	m := NewAuthTokenModel(app)

	token, err := m.GenerateSdkJwt("123456789")
	assert.NoError(t, err)

	parsed, err := jwt.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	assert.NoError(t, err)

	cl := jwt.Claims{}
	err = parsed.Claims([]byte("a-different-secret"), &cl)
	assert.Error(t, err)
}
