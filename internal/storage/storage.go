// Package storage writes reservation photo attachments and returns a
// reference a client can fetch them by.
package storage

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const defaultContentType = "application/octet-stream"

// NameFor picks a collision-resistant object name and a content type for an
// upload. The extension comes from the client filename when it has one,
// otherwise it is sniffed from the first bytes of the body.
func NameFor(filename, contentType string, head []byte) (name, ctype string) {
	detected := mimetype.Detect(head)

	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if !validExt(ext) {
		ext = detected.Extension()
	}

	ctype = contentType
	if ctype == "" || ctype == defaultContentType {
		ctype = detected.String()
	}

	return uuid.New().String() + ext, ctype
}

func validExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 {
		return false
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
