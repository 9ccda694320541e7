package service

import (
	"os"
	"testing"

	"github.com/Oddscorp-AI/banking-transfer/logger"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	logger.Init("panic")
	os.Exit(m.Run())
}
