package paths

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "/usr/local/bin/node", "/usr/local/bin/node"},
		{"backslashes", `C:\Users\dev\bin\tool.cmd`, "C:/Users/dev/bin/tool.cmd"},
		{"repeated_separators", "/usr//local///bin", "/usr/local/bin"},
		{"trailing_separator", "/var/cache/", "/var/cache"},
		{"root", "/", "/"},
		{"unc_lead_preserved", `\\server\share\tool.exe`, "//server/share/tool.exe"},
		{"unc_forward", "//server/share", "//server/share"},
		{"relative_dot", "./node_modules/.bin/tsc", "./node_modules/.bin/tsc"},
		{"spaces", "/opt/my tools/bin/a b", "/opt/my tools/bin/a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		`\\server\share\x`,
		"/usr//bin/",
		"C:\\tools\\x",
		"./a//b",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestIsShadowBinPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", false},
		{"root", "/", false},
		{"bare_node_modules", "node_modules", false},
		{"no_bin_child", "/proj/node_modules/pkg/bin", false},
		{"direct", "/proj/node_modules/.bin/tsc", true},
		{"segment_pair_only", "node_modules/.bin", true},
		{"windows_separators", `C:\proj\node_modules\.bin\tsc.cmd`, true},
		{"leading_dotdot", "../node_modules/.bin/eslint", true},
		{"nested", "/a/node_modules/pkg/node_modules/.bin/x", true},
		{"case_sensitive", "/proj/Node_Modules/.bin/tsc", false},
		{"bin_not_adjacent", "/proj/node_modules/x/.bin/tsc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsShadowBinPath(tt.in); got != tt.want {
				t.Fatalf("IsShadowBinPath(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsInManagedTree(t *testing.T) {
	if !IsInManagedTree("/proj/node_modules/pkg/lib/index.js") {
		t.Fatalf("expected managed tree")
	}
	if IsInManagedTree("/proj/src/index.js") {
		t.Fatalf("expected unmanaged tree")
	}
	if IsInManagedTree("") {
		t.Fatalf("expected empty path to be unmanaged")
	}
}

func TestIsAbs(t *testing.T) {
	if !IsAbs("/usr/bin/node") {
		t.Fatalf("expected absolute")
	}
	if !IsAbs(`C:\tools\node.exe`) {
		t.Fatalf("expected drive-prefixed path to be absolute")
	}
	if IsAbs("node_modules/.bin/tsc") {
		t.Fatalf("expected relative")
	}
}
