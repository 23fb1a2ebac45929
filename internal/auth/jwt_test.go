// File: internal/auth/jwt_test.go
package auth

import "testing"

func TestGenerateAndValidateToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateJWT(42, secret)
	if err != nil {
		t.Fatalf("GenerateJWT error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateJWT returned empty token")
	}

	userID, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateToken error = %v", err)
	}
	if userID != 42 {
		t.Fatalf("userID = %d; want 42", userID)
	}
}

func TestGenerateJWT_ZeroUserID(t *testing.T) {
	if _, err := GenerateJWT(0, []byte("secret")); err == nil {
		t.Fatal("GenerateJWT(0) error = nil; want error")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateJWT(1, []byte("right-secret"))
	if err != nil {
		t.Fatalf("GenerateJWT error = %v", err)
	}

	if _, err := ValidateToken(token, []byte("wrong-secret")); err == nil {
		t.Fatal("ValidateToken with wrong secret error = nil; want error")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token", []byte("secret")); err == nil {
		t.Fatal("ValidateToken(garbage) error = nil; want error")
	}
}
