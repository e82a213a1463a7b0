package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	mgr := NewJWTManager("test-secret-key-123")
	token, err := mgr.GenerateToken("sess-42", "Alice")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.SessionID != "sess-42" {
		t.Errorf("expected session_id=sess-42, got %s", claims.SessionID)
	}
	if claims.Name != "Alice" {
		t.Errorf("expected name=Alice, got %s", claims.Name)
	}
	if claims.Subject != "sess-42" {
		t.Errorf("expected subject=sess-42, got %s", claims.Subject)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	mgr1 := NewJWTManager("secret-one")
	mgr2 := NewJWTManager("secret-two")

	token, err := mgr1.GenerateToken("sess-1", "Bob")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = mgr2.ValidateToken(token)
	if err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	mgr := NewJWTManager("test-secret")
	_, err := mgr.ValidateToken("not-a-jwt")
	if err == nil {
		t.Error("expected error for garbage token")
	}
	_, err = mgr.ValidateToken("")
	if err == nil {
		t.Error("expected error for empty token")
	}
}

func TestExpiredToken(t *testing.T) {
	mgr := &JWTManager{
		secret: []byte("test-secret"),
		expiry: -1 * time.Second,
	}
	token, err := mgr.GenerateToken("sess-1", "Carol")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = mgr.ValidateToken(token)
	if err == nil {
		t.Error("expected error for expired token")
	}
}

func TestDifferentSessionsGetDifferentTokens(t *testing.T) {
	mgr := NewJWTManager("test-secret")
	t1, _ := mgr.GenerateToken("sess-a", "Alice")
	t2, _ := mgr.GenerateToken("sess-b", "Bob")
	if t1 == t2 {
		t.Error("different sessions should get different tokens")
	}
}

func TestTokenExpiry(t *testing.T) {
	mgr := NewJWTManager("test-secret")
	if got := mgr.TokenExpiry(); got != 86400 {
		t.Errorf("expected expiry=86400, got %d", got)
	}
}
