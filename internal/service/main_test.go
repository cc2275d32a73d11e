package service

import (
	"os"
	"testing"

	"MysticTarot/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
