package app

import "testing"

func TestRefreshTestModeTracksEnvironment(t *testing.T) {
	t.Cleanup(RefreshTestMode)
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	if !InTestMode() {
		t.Fatal("expected test mode after setting the flag")
	}

	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	if InTestMode() {
		t.Fatal("expected test mode to clear after refresh")
	}
}
