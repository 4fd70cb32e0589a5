package tenancy

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gpatracker/internal/common"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     string
	}{
		{name: "plain", username: "alice", want: "user_alice_data"},
		{name: "keeps case digits underscore", username: "Bob_99", want: "user_Bob_99_data"},
		{name: "dots and at", username: "a.b@c", want: "user_a_b_c_data"},
		{name: "spaces and quotes", username: `x'; DROP TABLE users;--`, want: "user_x___DROP_TABLE_users____data"},
		{name: "non ascii is one underscore per rune", username: "zoë", want: "user_zo__data"},
		{name: "empty", username: "", want: "user__data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveName(tt.username); got != tt.want {
				t.Fatalf("DeriveName(%q) = %q, want %q", tt.username, got, tt.want)
			}
		})
	}
}

func TestDeriveName_Deterministic(t *testing.T) {
	if DeriveName("same.user") != DeriveName("same.user") {
		t.Fatal("DeriveName must be a pure function")
	}
}

func TestDeriveName_CollisionIsPossible(t *testing.T) {
	if DeriveName("a.b") != DeriveName("a-b") {
		t.Fatal("expected sanitized collision; uniqueness is enforced by storage")
	}
}

func TestValidate(t *testing.T) {
	valid := []string{"user_alice_data", "user_A_1_data", DeriveName("x'; DROP TABLE users;--")}
	for _, n := range valid {
		if err := Validate(n); err != nil {
			t.Fatalf("Validate(%q) unexpected error: %v", n, err)
		}
	}

	invalid := []string{
		"",
		"alice",
		"user__data",
		"user_alice_data; DROP TABLE users",
		"USER_alice_data",
		"user_al-ice_data",
		"user_" + strings.Repeat("a", MaxNameLength) + "_data",
	}
	for _, n := range invalid {
		err := Validate(n)
		if !errors.Is(err, common.ErrValidation) {
			t.Fatalf("Validate(%q) = %v, want ErrValidation", n, err)
		}
	}
}
