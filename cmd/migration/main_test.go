package main

import "testing"

func TestParseSteps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "default one step", args: nil, want: 1},
		{name: "explicit", args: []string{" 3 "}, want: 3},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "not a number", args: []string{"all"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseSteps(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", tc.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSteps(%v): %v", tc.args, err)
			}
			if got != tc.want {
				t.Fatalf("parseSteps(%v)=%d, want %d", tc.args, got, tc.want)
			}
		})
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	t.Parallel()

	if v, err := parseVersion("2"); err != nil || v != 2 {
		t.Fatalf("parseVersion(2)=%d, %v", v, err)
	}
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if _, err := parseTarget("-1"); err == nil {
		t.Fatalf("expected error for negative target")
	}
	if v, err := parseTarget("1"); err != nil || v != 1 {
		t.Fatalf("parseTarget(1)=%d, %v", v, err)
	}
}

func TestRun_UsageWithoutCommand(t *testing.T) {
	if code := run(nil); code != exitUsage {
		t.Fatalf("expected usage exit code, got %d", code)
	}
}
