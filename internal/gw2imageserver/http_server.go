package gw2imageserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/ptolstoi/gw2inflate/gw2dat"
	"github.com/ptolstoi/gw2inflate/inflate"
)

func (app *app) initHTTP() {
	app.httpRouter = httprouter.New()
	app.httpRouter.GET("/v1/image/:file", app.serveFile)
	app.httpRouter.GET("/v1/entries/:id", app.serveEntry)
}

func (app *app) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	log.Printf("%v %v", req.Method, req.URL)

	app.httpRouter.ServeHTTP(w, req)
}

func (app *app) serveFile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	noCache := len(r.URL.Query()["noCache"]) != 0

	fileToServe := strings.SplitN(ps.ByName("file"), ".", 2)
	extension := fileTypePNG
	if len(fileToServe) > 1 {
		extension = fileToServe[1]
	}

	file, err := app.getFileFromCache(fileToServe[0], extension)

	if err == nil && (file == nil || noCache) {
		file, err = app.noFileInCache(fileToServe[0], extension)
	}

	if err != nil {
		writeError(w, statusFor(err), fmt.Sprintf("error during lookup of file %v: %v", fileToServe[0], err))
		return
	} else if file == nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	log.Printf("[serveFile] file found: %v %v %v", file.file, file.fileType, file.lastModified)

	headers := w.Header()
	if file.fileType == fileTypePNG {
		headers.Set("content-type", "image/png")
	} else {
		headers.Set("content-type", "application/octet-stream")
	}
	headers.Set("last-modified", file.lastModified.Format(http.TimeFormat))

	_, _ = w.Write(file.content)
}

type entryResponse struct {
	FileID           uint32 `json:"fileId"`
	Index            int    `json:"index"`
	Offset           uint64 `json:"offset"`
	Size             uint32 `json:"size"`
	CompressionFlags uint16 `json:"compressionFlags"`
	Compressed       bool   `json:"compressed"`
}

func (app *app) serveEntry(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.ParseUint(ps.ByName("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("bad file id %q", ps.ByName("id")))
		return
	}

	index, err := app.dat.EntryIndexForFileID(uint32(id))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	entry := app.dat.Entries()[index]

	w.Header().Set("content-type", "application/json")
	_ = json.NewEncoder(w).Encode(entryResponse{
		FileID:           uint32(id),
		Index:            index,
		Offset:           entry.Offset,
		Size:             entry.Size,
		CompressionFlags: entry.CompressionFlags,
		Compressed:       entry.IsCompressed(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotFound), errors.Is(err, gw2dat.ErrUnknownFileID):
		return http.StatusNotFound
	case errors.Is(err, errUnknownFileType), errors.Is(err, errNotATexture), errors.Is(err, inflate.ErrUnknownFormat):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, message string) {
	log.Printf("[writeError] %v %v", status, message)

	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{
		Error: message,
	})
}
