package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
)

// UploadField is the multipart field every file is sent under.
const UploadField = "files"

// File is one part of a multipart upload.
type File struct {
	Name        string
	ContentType string // application/octet-stream when empty
	Data        io.Reader
}

// Upload posts files as multipart/form-data and decodes the response into
// T. The multipart writer sets Content-Type with its boundary, so no JSON
// content type is sent.
func Upload[T any](ctx context.Context, c *Client, path string, files []File) (T, error) {
	var zero T

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			UploadField, escapeQuotes(filepath.Base(f.Name))))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := mw.CreatePart(h)
		if err != nil {
			return zero, fmt.Errorf("creating form part: %w", err)
		}
		if _, err := io.Copy(part, f.Data); err != nil {
			return zero, fmt.Errorf("reading %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return zero, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	status, data, err := c.send(req, path)
	if err != nil {
		return zero, err
	}
	if status < 200 || status > 299 {
		return zero, parseError(status, data, msgUploadFailed, msgUploadFailed)
	}
	return decode[T](path, data)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
