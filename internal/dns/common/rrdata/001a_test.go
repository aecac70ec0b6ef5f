package rrdata

import "testing"

func TestValidateAData(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"192.0.2.1", false},
		{"203.0.113.5", false},
		{"0.0.0.0", false},
		{"255.255.255.255", false},
		{"192.0.2.999", true},
		{"not-an-ip", true},
		{"", true},
		{"192.0.2", true},
		{"192.0.2.1.5", true},
		{"010.0.0.1", true},
		{" 192.0.2.1", true},
		{"2001:db8::1", true},
		{"::ffff:192.0.2.1", true},
	}

	for _, tt := range tests {
		err := validateAData(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateAData(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
