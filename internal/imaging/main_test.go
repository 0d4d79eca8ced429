package imaging

import (
	"testing"

	"go.uber.org/goleak"
)

// Colorize fans work out to goroutines; none may outlive a call.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
