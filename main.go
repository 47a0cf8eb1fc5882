package main

import (
	"os"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
