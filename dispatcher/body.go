// dispatcher/body.go
package dispatcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/deploymenttheory/go-api-session-client/headers"
)

// OpaqueBody is a binary payload sent exactly as given. ContentType, when set, is used
// instead of the JSON default.
type OpaqueBody struct {
	Data        []byte
	ContentType string
}

// MultipartBody is a multipart/form-data payload. Build one with NewMultipartBody.
type MultipartBody struct {
	buf         bytes.Buffer
	contentType string
}

// MultipartFile is one file part of a multipart body.
type MultipartFile struct {
	FieldName string
	FileName  string
	Content   io.Reader
}

// NewMultipartBody encodes fields and files as multipart/form-data.
func NewMultipartBody(fields map[string]string, files ...MultipartFile) (*MultipartBody, error) {
	mb := &MultipartBody{}
	w := multipart.NewWriter(&mb.buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write multipart field %q: %w", name, err)
		}
	}

	for _, f := range files {
		part, err := w.CreateFormFile(f.FieldName, f.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to create multipart file %q: %w", f.FileName, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("failed to copy multipart file %q: %w", f.FileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	mb.contentType = w.FormDataContentType()
	return mb, nil
}

// ContentType returns the multipart content type including its boundary.
func (mb *MultipartBody) ContentType() string {
	return mb.contentType
}

// encodeBody turns a request body into bytes plus the content type that should be
// defaulted for it. An empty content type means no default is applied.
//
//   - nil: no body
//   - string, []byte, json.RawMessage: raw text, sent unchanged, JSON content type
//   - OpaqueBody, *OpaqueBody, *MultipartBody: sent unchanged with their own content type
//   - io.Reader: read once and sent unchanged, no default content type
//   - anything else: marshaled to JSON
func encodeBody(body interface{}) (data []byte, contentType string, err error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(b), headers.ContentTypeJSON, nil
	case []byte:
		return b, headers.ContentTypeJSON, nil
	case json.RawMessage:
		return b, headers.ContentTypeJSON, nil
	case OpaqueBody:
		return b.Data, b.ContentType, nil
	case *OpaqueBody:
		if b == nil {
			return nil, "", nil
		}
		return b.Data, b.ContentType, nil
	case *MultipartBody:
		if b == nil {
			return nil, "", nil
		}
		return b.buf.Bytes(), b.contentType, nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read request body: %w", err)
		}
		return data, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		return data, headers.ContentTypeJSON, nil
	}
}
