package plink

import "testing"

func TestIsLocalHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"LOCALHOST", true},
		{"dev.localhost", true},
		{"printer.local", true},
		{"127.0.0.1", true},
		{"127.8.8.8", true},
		{"::1", true},
		{"0.0.0.0", true},
		{"10.0.0.5", true},
		{"172.16.4.1", true},
		{"192.168.1.10", true},
		{"fd12:3456::1", true},
		{"169.254.1.1", true},
		{"example.com", false},
		{"localhost.example.com", false},
		{"mylocal.host", false},
		{"8.8.8.8", false},
		{"2606:4700::1111", false},
	}

	for _, tt := range tests {
		if got := isLocalHost(tt.host); got != tt.want {
			t.Errorf("isLocalHost(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestMatchesBlacklist(t *testing.T) {
	domains := []string{"evil.example", " Tracker.example "}

	tests := []struct {
		host string
		want bool
	}{
		{"evil.example", true},
		{"EVIL.example", true},
		{"sub.evil.example", true},
		{"deep.sub.evil.example", true},
		{"tracker.example", true},
		{"notevil.example", false},
		{"evil.example.com", false},
		{"example.com", false},
	}

	for _, tt := range tests {
		if got := matchesBlacklist(tt.host, domains); got != tt.want {
			t.Errorf("matchesBlacklist(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}

	if matchesBlacklist("anything.example", nil) {
		t.Error("empty blacklist must not match")
	}
	if matchesBlacklist("anything.example", []string{""}) {
		t.Error("blank blacklist entry must not match")
	}
}
