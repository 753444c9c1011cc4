package gw2imageserver

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/klauspost/compress/zstd"
	"github.com/ptolstoi/gw2inflate/gw2dat"
)

type Config struct {
	Address string
	DatPath string
	CacheDB string

	Version   string
	BuildTime string
}

type app struct {
	config Config

	db  *sql.DB
	dat gw2dat.GW2DatReader

	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder

	httpRouter *httprouter.Router
	httpServer *http.Server
}

type App interface {
	http.Handler
	RunUntilSignal() error
	Close() error
}

// NewApp opens the archive and the cache named by config.
func NewApp(config Config) (App, error) {
	dat, err := gw2dat.NewGW2DatReader(config.DatPath)
	if err != nil {
		return nil, err
	}

	app, err := newApp(config, dat)
	if err != nil {
		_ = dat.Close()
		return nil, err
	}

	return app, nil
}

func newApp(config Config, dat gw2dat.GW2DatReader) (*app, error) {
	app := app{
		config: config,
		dat:    dat,
	}

	var err error

	app.zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression), zstd.WithZeroFrames(true))
	if err != nil {
		return nil, err
	}
	app.zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	if err := app.initDB(config.CacheDB); err != nil {
		app.zstdDecoder.Close()
		return nil, err
	}
	app.initHTTP()

	return &app, nil
}

func (app *app) RunUntilSignal() error {
	app.httpServer = &http.Server{
		Addr:    app.config.Address,
		Handler: app,

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("[RunUntilSignal] listening on %v (version %v, built %v)",
		app.config.Address, app.config.Version, app.config.BuildTime)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.httpServer.ListenAndServe()
	}()

	stopChannel := make(chan os.Signal, 1)
	signal.Notify(stopChannel, os.Interrupt)
	defer signal.Stop(stopChannel)

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-stopChannel:
	}

	log.Printf("[RunUntilSignal] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.httpServer.Shutdown(ctx)
}

func (app *app) Close() error {
	app.closeDB()
	app.zstdDecoder.Close()
	return app.dat.Close()
}
