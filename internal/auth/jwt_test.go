package auth

import (
	"testing"

	"github.com/arcadehub/api/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	user := &model.User{
		ID:       "user-1",
		Email:    "player@example.com",
		Nickname: "player",
	}

	token, err := GenerateAccessToken(user, "secret")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateAccessToken(token, "secret")
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Nickname != user.Nickname {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "arcadehub" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(&model.User{ID: "user-1"}, "secret")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := ValidateAccessToken(token, "other-secret"); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestAccessTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateAccessToken("not.a.token", "secret"); err == nil {
		t.Error("expected validation to fail")
	}
}
