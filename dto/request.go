package dto

import (
	"fmt"
	"path/filepath"
	"strings"
)

// StatementFile is one uploaded statement held in memory
type StatementFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Ext returns the lower-cased file extension including the dot
func (f StatementFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Filename))
}

// StatementUploadRequest represents the incoming upload
type StatementUploadRequest struct {
	Files    []StatementFile
	Password string
}

// Validate performs basic validation on the request
func (r *StatementUploadRequest) Validate() error {
	if len(r.Files) == 0 {
		return ErrNoStatements
	}
	for _, f := range r.Files {
		if len(f.Data) == 0 {
			return fmt.Errorf("statement %s is empty", f.Filename)
		}
	}
	return nil
}

type ChatRequest struct {
	Message string `json:"message"`
}
