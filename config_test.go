package evds

import "testing"

func TestLoadConfigDefaultsWithoutEnv(t *testing.T) {
	ResetConfigForTesting()
	t.Setenv("EVDS_CONFIG", "")
	c, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := defaultKernelConfig()
	if c != want {
		t.Fatalf("got %+v, want default %+v", c, want)
	}
}

func TestLoadConfigCachesAfterFirstCall(t *testing.T) {
	ResetConfigForTesting()
	t.Setenv("EVDS_CONFIG", "")
	first, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	first.LogLevel = "mutated-copy-should-not-affect-cache"
	second, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if second.LogLevel != "info" {
		t.Fatalf("cached config should be unaffected by caller mutation of a prior copy, got %q", second.LogLevel)
	}
}
