package gw2imageserver

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func (app *app) initDB(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	// A ":memory:" database lives in a single connection.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS
			raw
		(
			file TEXT NOT NULL,
			lastModified TEXT,
			fileType TEXT,
			content BLOB,

			CONSTRAINT file_fileType UNIQUE (file, filetype)
		)
	`)

	if err != nil {
		_ = db.Close()
		return fmt.Errorf("creating cache table: %w", err)
	}

	app.db = db

	return nil
}

func (app *app) getFileFromCache(fileToLookup string, fileTypeToLookup string) (*file, error) {
	log.Printf("[getFileFromCache] %v %v", fileToLookup, fileTypeToLookup)

	row := app.db.QueryRow(`
	SELECT
		file,
		lastModified,
		fileType,
		content
	FROM
		raw
	WHERE
		file = ? AND fileType = ?`, fileToLookup, fileTypeToLookup)

	file := file{}
	var lastModified string
	var content []byte

	err := row.Scan(
		&file.file,
		&lastModified,
		&file.fileType,
		&content,
	)

	if err != nil && err != sql.ErrNoRows {
		return nil, err
	} else if err == sql.ErrNoRows {
		log.Printf("[getFileFromCache] not found")
		return nil, nil
	}

	file.lastModified, err = time.Parse(time.RFC1123Z, lastModified)
	if err != nil {
		return nil, err
	}

	file.content, err = app.zstdDecoder.DecodeAll(content, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing cached %v: %w", fileToLookup, err)
	}

	return &file, nil
}

func (app *app) saveFileToCache(file *file) error {
	log.Printf("[saveFileToCache] %v %v", file.file, file.fileType)

	lastModified := file.lastModified.Format(time.RFC1123Z)
	content := app.zstdEncoder.EncodeAll(file.content, nil)

	_, err := app.db.Exec(`
		INSERT OR REPLACE INTO
			raw
				(
					file, lastModified, fileType, content
				)
		VALUES
				(?, ?, ?, ?)
	`, file.file, lastModified, file.fileType, content)

	return err
}

func (app *app) closeDB() {
	app.db.Close()
}
