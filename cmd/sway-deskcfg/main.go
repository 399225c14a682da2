package main

import (
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/pancsta/sway-deskcfg/internal/cmds"
)

func main() {
	logger := zap.NewNop().Sugar()
	if os.Getenv("DESKCFG_LOG") != "" {
		var err error
		logger, err = cmds.NewLogger()
		if err != nil {
			log.Fatalf("error: %+v", err)
		}
	}

	// cobra prints the error
	err := cmds.GetRootCmd(logger).Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
