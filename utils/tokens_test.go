package utils_test

import (
	"testing"
	"time"

	"userdesk/utils"
)

const testSecret = "userdesk_test_jwt_secret_key_1234567890"

func newTestTokens(t *testing.T) *utils.Tokens {
	t.Helper()
	tokens, err := utils.NewTokens(testSecret)
	if err != nil {
		t.Fatalf("NewTokens() error = %v", err)
	}
	return tokens
}

func TestNewTokensRejectsShortSecret(t *testing.T) {
	if _, err := utils.NewTokens("too-short"); err == nil {
		t.Error("NewTokens() accepted a short secret")
	}
}

func TestIssueAndVerify(t *testing.T) {
	tokens := newTestTokens(t)

	token, err := tokens.Issue(42, "a@x.com", utils.SessionTTL)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned an empty token")
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("claims.UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("claims.Email = %q, want a@x.com", claims.Email)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	tokens := newTestTokens(t)

	token, err := tokens.Issue(7, "b@x.com", -time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := tokens.Verify(token); err == nil {
		t.Error("Verify() accepted an expired token")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := newTestTokens(t)

	other, err := utils.NewTokens("a_completely_different_secret_key_000000")
	if err != nil {
		t.Fatalf("NewTokens() error = %v", err)
	}

	token, err := issuer.Issue(7, "c@x.com", utils.SessionTTL)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Error("Verify() accepted a token signed with a different secret")
	}
}

func TestVerifyGarbage(t *testing.T) {
	tokens := newTestTokens(t)

	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tokens.Verify(tokenString); err == nil {
			t.Errorf("Verify(%q) accepted garbage", tokenString)
		}
	}
}
