package rrdata

import "testing"

func TestValidateAAAAData(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2001:db8::1", false},
		{"::1", false},
		{"2001:0db8:0000:0000:0000:0000:0000:0001", false},
		{"::ffff:192.0.2.1", false},
		{"192.0.2.1", true},
		{"fe80::1%eth0", true},
		{"2001:db8::g", true},
		{"", true},
	}
	for _, tt := range tests {
		err := validateAAAAData(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateAAAAData(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestPresentAAAAData(t *testing.T) {
	if got := presentAAAAData("2001:0DB8:0000:0000:0000:0000:0000:0001"); got != "2001:db8::1" {
		t.Errorf("presentAAAAData() = %q, want %q", got, "2001:db8::1")
	}
	if got := presentAAAAData("garbage"); got != "garbage" {
		t.Errorf("presentAAAAData(garbage) = %q", got)
	}
}
