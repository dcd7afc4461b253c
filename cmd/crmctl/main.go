package main

import (
	"os"

	"github.com/geocoder89/salescrm/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
