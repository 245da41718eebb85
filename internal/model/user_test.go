package model

import "testing"

func TestHasRole(t *testing.T) {
	admin := &User{Roles: []string{RoleUser, RoleAdmin}}
	regular := &User{Roles: []string{RoleUser}}
	var nobody *User

	tests := []struct {
		name     string
		user     *User
		role     string
		expected bool
	}{
		{"admin has admin", admin, RoleAdmin, true},
		{"admin has user", admin, RoleUser, true},
		{"regular lacks admin", regular, RoleAdmin, false},
		{"regular has user", regular, RoleUser, true},
		{"nil user has nothing", nobody, RoleAdmin, false},
		{"nil user has no user role", nobody, RoleUser, false},
		{"unknown role", admin, "ROLE_WIZARD", false},
	}

	for _, tt := range tests {
		if got := tt.user.HasRole(tt.role); got != tt.expected {
			t.Errorf("%s: HasRole(%q) = %v, want %v", tt.name, tt.role, got, tt.expected)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	if (&User{Roles: []string{RoleUser}}).IsAdmin() {
		t.Error("regular user should not be admin")
	}
	if !(&User{Roles: []string{RoleAdmin}}).IsAdmin() {
		t.Error("admin user should be admin")
	}
	var nobody *User
	if nobody.IsAdmin() {
		t.Error("nil user should not be admin")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Ana Novak", "ana@example.com", false},
		{"A", "ana@example.com", true},
		{"Ana Novak", "not-an-email", true},
		{"", "", true},
	}

	for _, tt := range tests {
		err := ValidateProfile(tt.name, tt.email)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateProfile(%q, %q) error = %v, wantErr %v", tt.name, tt.email, err, tt.wantErr)
		}
	}
}
