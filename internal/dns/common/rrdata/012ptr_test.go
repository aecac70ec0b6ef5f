package rrdata

import "testing"

func TestValidatePTRData(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"host.example.com.", false},
		{"host", false},
		{"", true},
		{"192.0.2.1 ", true},
		{"host..example.com", true},
	}
	for _, tt := range tests {
		err := validatePTRData(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("validatePTRData(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
