package main

import (
	"strings"
	"testing"
)

// Required flags must be enforced before any device is touched.
func TestEraseRequiresSpanFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"erase", "--device", "/dev/null"})

	err := root.Execute()
	if err == nil {
		t.Fatal("erase without --start/--end must fail")
	}
	if !strings.Contains(err.Error(), "start") || !strings.Contains(err.Error(), "end") {
		t.Errorf("error should name the missing flags, got: %v", err)
	}
}

func TestProbeRequiresDeviceFlag(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"probe"})

	err := root.Execute()
	if err == nil {
		t.Fatal("probe without --device must fail")
	}
	if !strings.Contains(err.Error(), "device") {
		t.Errorf("error should name the missing flag, got: %v", err)
	}
}
