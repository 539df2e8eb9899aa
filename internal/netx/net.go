// Package netx holds small HTTP client helpers.
package netx

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"sort"
)

// NewMultipartRequest builds a POST request whose body is a multipart form
// with one file part and the given plain fields. The body is streamed
// through a pipe, so r is read only while the request is being sent.
// Fields are written before the file part, in key order.
func NewMultipartRequest(ctx context.Context, url, fileField, fileName string, r io.Reader, fields map[string]string) (*http.Request, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, fileField, fileName, r, fields))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

func writeMultipart(mw *multipart.Writer, fileField, fileName string, r io.Reader, fields map[string]string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return err
		}
	}

	part, err := mw.CreateFormFile(fileField, fileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	return mw.Close()
}

// IsNetworkError reports whether err came from the transport rather than
// from an HTTP response.
func IsNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
