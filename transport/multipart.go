package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path"
	"strings"

	"github.com/pithecene-io/seedbank/iox"
)

// Multipart field names used by the service.
const (
	FieldActivities = "activities"
	FieldImages     = "images"
	FieldReaction   = "reaction"
	FieldImage      = "image"
)

// blobFileName is the filename given to JSON metadata parts, matching what
// browsers send for a Blob.
const blobFileName = "blob"

// Part is one multipart section. Open is called once while the body is
// assembled and the returned reader is closed straight after.
type Part struct {
	Field       string
	FileName    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// JSONPart builds an application/json metadata part.
func JSONPart(field string, data []byte) Part {
	return Part{
		Field:       field,
		FileName:    blobFileName,
		ContentType: "application/json",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FilePart builds a binary part whose content type is inferred from the
// file name, falling back to application/octet-stream.
func FilePart(field, fileName string, open func() (io.ReadCloser, error)) Part {
	return Part{
		Field:       field,
		FileName:    fileName,
		ContentType: InferContentType(fileName),
		Open:        open,
	}
}

// InferContentType returns the MIME type for a file name's extension.
func InferContentType(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(parts []Part) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range parts {
		if err := writePart(w, p); err != nil {
			return nil, "", fmt.Errorf("part %q (%s): %w", p.Field, p.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writePart(w *multipart.Writer, p Part) error {
	if p.Open == nil {
		return fmt.Errorf("no content")
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(p.Field), quoteEscaper.Replace(p.FileName)))
	contentType := p.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	dst, err := w.CreatePart(h)
	if err != nil {
		return err
	}

	src, err := p.Open()
	if err != nil {
		return err
	}
	defer iox.DiscardClose(src)

	_, err = io.Copy(dst, src)
	return err
}
