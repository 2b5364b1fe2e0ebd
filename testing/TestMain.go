package testing

import (
	"os"
	"sync"
	stdtesting "testing"

	"github.com/paulpark6/salesvision/internal/app"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("SALESVISION_TEST_MODE", "1")
		if os.Getenv("DATA_SOURCE") == "" {
			_ = os.Setenv("DATA_SOURCE", "memory")
		}
		app.RefreshTestMode()
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
