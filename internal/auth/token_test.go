package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homefinder/internal/model"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	user := &model.User{ID: 7, Username: "sam", Role: model.RoleAgent}

	session, token, err := svc.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, uint(7), session.UserID)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, claims.ID)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, model.RoleAgent, claims.Role)
	assert.Equal(t, "sam", claims.Subject)
}

func TestTokenService_Parse_Rejects(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	user := &model.User{ID: 1, Role: model.RoleBuyer}
	_, token, err := svc.Issue(user)
	require.NoError(t, err)

	tests := []struct {
		name  string
		svc   *TokenService
		token string
	}{
		{"wrong secret", NewTokenService("other-secret", time.Hour), token},
		{"garbage", svc, "not-a-token"},
		{"expired", &TokenService{secret: []byte("test-secret"), ttl: time.Hour, now: func() time.Time { return time.Now().Add(2 * time.Hour) }}, token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.Parse(tt.token)
			assert.Error(t, err)
		})
	}
}
