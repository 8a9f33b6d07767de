package main

import (
	"log"
	"twitchoverlay/internal/pkg/app"
)

func main() {
	if err := app.New(); err != nil {
		log.Fatal(err)
	}
}
