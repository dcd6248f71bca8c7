package password_test

import (
	"campusroom/shared/password"
	"errors"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error hashing: %v", err)
	}

	if hash == "s3cret-pass" {
		t.Error("expected hash to differ from the plain password")
	}

	if err := password.Verify("s3cret-pass", hash); err != nil {
		t.Errorf("expected matching password to verify, got %v", err)
	}

	if err := password.Verify("wrong-pass", hash); !errors.Is(err, password.ErrInvalidPassword) {
		t.Errorf("expected ErrInvalidPassword for wrong password, got %v", err)
	}
}

func TestHash_Empty(t *testing.T) {
	if _, err := password.Hash(""); err == nil {
		t.Error("expected an error hashing an empty password")
	}
}

func TestVerify_EmptyInputs(t *testing.T) {
	if err := password.Verify("", "somehash"); !errors.Is(err, password.ErrInvalidPassword) {
		t.Errorf("expected ErrInvalidPassword for empty password, got %v", err)
	}

	if err := password.Verify("somepass", ""); !errors.Is(err, password.ErrInvalidPassword) {
		t.Errorf("expected ErrInvalidPassword for empty hash, got %v", err)
	}
}
