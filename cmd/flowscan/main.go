package main

import (
	"os"

	"github.com/phdavis1027/flowscan/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], os.Stdout, os.Stderr))
}
