package auth

import "testing"

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("sekret-1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "sekret-1" {
		t.Fatal("password stored in clear")
	}

	if err := ComparePassword(hash, "sekret-1"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestHashEmptyPassword(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("empty password accepted")
	}
}

func TestCompareMissingArgs(t *testing.T) {
	if err := ComparePassword("", "x"); err == nil {
		t.Error("empty hash accepted")
	}
	if err := ComparePassword("hash", ""); err == nil {
		t.Error("empty password accepted")
	}
}
