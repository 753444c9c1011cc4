package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ptolstoi/gw2inflate/internal/gw2imageserver"
)

var (
	_version   string = "UNSET"
	_buildTime string = "UNSET"
)

func envOr(name string, fallback string) string {
	if value, ok := os.LookupEnv(name); ok && value != "" {
		return value
	}
	return fallback
}

func main() {
	fmt.Printf("\n\nStarting GW2ImageServer\n=======================\n")

	listenOn := "localhost:7089"
	datPath := "Gw2.dat"

	if len(os.Args) > 1 {
		listenOn = os.Args[1]
	}
	if len(os.Args) > 2 {
		datPath = os.Args[2]
	}

	config := gw2imageserver.Config{
		Address: envOr("ADDRESS", listenOn),
		DatPath: envOr("GW2_DAT", datPath),
		CacheDB: envOr("CACHE_DB", "./cache.db"),

		Version:   _version,
		BuildTime: _buildTime,
	}

	app, err := gw2imageserver.NewApp(config)
	if err != nil {
		log.Fatalf("couldn't create the image server: %v", err)
	}
	defer app.Close()

	if err := app.RunUntilSignal(); err != nil {
		log.Fatalf("error: %v", err)
	}
}
