package workflow

import (
	"testing"
	"time"
)

func TestIsValidName(t *testing.T) {
	valid := []string{"Ravi", "Anita Sharma", "  Jo Lee  "}
	invalid := []string{"", "A", "R2D2", "名前", "O'Brien"}

	for _, name := range valid {
		if !IsValidName(name) {
			t.Fatalf("%q should be a valid name", name)
		}
	}
	for _, name := range invalid {
		if IsValidName(name) {
			t.Fatalf("%q should be rejected", name)
		}
	}
}

func TestIsValidMobile(t *testing.T) {
	valid := []string{"9876543210", "98765-43210", "(987) 654-3210"}
	invalid := []string{"98765432", "987654321012", "", "abcdefghij"}

	for _, mobile := range valid {
		if !IsValidMobile(mobile) {
			t.Fatalf("%q should be a valid mobile", mobile)
		}
	}
	for _, mobile := range invalid {
		if IsValidMobile(mobile) {
			t.Fatalf("%q should be rejected", mobile)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"ravi@example.com", "a.b@solar.co", "x_y-z@mail.org"}
	invalid := []string{
		"",
		"no-at-sign.com",
		".leading@example.com",
		"trailing.@example.com",
		"dou..bled@example.com",
		"tld@example.xyz",
		"@example.com",
		"user@",
		"user@nodot",
	}

	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Fatalf("%q should be a valid email", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Fatalf("%q should be rejected", email)
		}
	}
}

func TestIsValidScheduleDate(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.Local)

	if !IsValidScheduleDate("2026-03-14", now) {
		t.Fatal("today must be accepted even mid-afternoon")
	}
	if !IsValidScheduleDate("2026-04-01", now) {
		t.Fatal("future dates must be accepted")
	}
	if IsValidScheduleDate("2026-03-13", now) {
		t.Fatal("yesterday must be rejected")
	}
	if IsValidScheduleDate("14-03-2026", now) {
		t.Fatal("malformed dates must be rejected")
	}
}
