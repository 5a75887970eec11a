package version

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "18.17.0", "18.17.0", false},
		{"v_prefix", "v9.8.1", "9.8.1", false},
		{"whitespace", " 1.2.3\n", "1.2.3", false},
		{"empty", "", "", true},
		{"two_parts", "1.2", "", true},
		{"non_numeric", "1.2.x", "", true},
		{"blank_part", "1..3", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
