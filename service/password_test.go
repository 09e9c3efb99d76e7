package service

import (
	"testing"
)

// TestHashAndCheckPassword ensures that password hashing and verification work correctly.
func TestHashAndCheckPassword(t *testing.T) {
	password := "mySecretPassword123"

	// 1. Test Hashing
	hashedPassword, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() returned an unexpected error: %v", err)
	}

	if hashedPassword == password {
		t.Errorf("Hashed password should not be the same as the original password.")
	}

	// 2. Test Successful Verification
	match := CheckPasswordHash(password, hashedPassword)
	if !match {
		t.Errorf("CheckPasswordHash() should have returned true for a matching password, but got false.")
	}

	// 3. Test Failed Verification
	wrongPassword := "notMyPassword"
	match = CheckPasswordHash(wrongPassword, hashedPassword)
	if match {
		t.Errorf("CheckPasswordHash() should have returned false for a non-matching password, but got true.")
	}
}
