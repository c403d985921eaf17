package main

import (
	"os"

	"find-repeats/app"
)

func main() {
	os.Exit(app.Run())
}
