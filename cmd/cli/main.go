package main

import (
	"os"

	"github.com/S-COULIBALY/express-quote-sub008/cmd/cli/cmd"
	"github.com/S-COULIBALY/express-quote-sub008/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
