package session

import (
	"bytes"
	"encoding/base64"
	"image"
	"strings"
	"sync"

	// Register decoders so sniffing and previews handle the formats the
	// generation API accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// MaxAttachments bounds the images attached to one draft.
const MaxAttachments = 5

// FileInput is one user-selected file handed to the attachment list.
type FileInput struct {
	Name        string
	ContentType string
	Data        []byte
}

// Attachment holds one attached image and its lazily produced preview.
// The preview field is guarded by the owning list's mutex; read it through
// Attachments.Previews.
type Attachment struct {
	Name    string
	Data    []byte
	mime    string
	preview string
}

// Attachments is the bounded, ordered image set attached to a draft.
// Attachments live for one generation round-trip: a successful submit clears
// them.
type Attachments struct {
	mu    sync.Mutex
	items []*Attachment
	wg    sync.WaitGroup
}

// NewAttachments creates an empty attachment list.
// Parameters: none.
// Returns:
//   - *Attachments: empty list.
func NewAttachments() *Attachments {
	return &Attachments{}
}

// Add filters non-image inputs out of the batch and appends the remainder,
// rejecting the whole batch when it would push the list past MaxAttachments.
// Preview encoding for admitted items runs in the background; a preview
// failure degrades display only and never removes the attachment.
// Parameters:
//   - batch: newly selected files, in selection order.
// Returns:
//   - error: ValidationError if the filtered batch exceeds the limit.
func (l *Attachments) Add(batch []FileInput) error {
	admitted := make([]*Attachment, 0, len(batch))
	for _, f := range batch {
		mime := imageMIME(f)
		if mime == "" {
			continue
		}
		admitted = append(admitted, &Attachment{Name: f.Name, Data: f.Data, mime: mime})
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.items)+len(admitted) > MaxAttachments {
		return newValidationError("Maximum 5 images allowed")
	}
	l.items = append(l.items, admitted...)

	for _, att := range admitted {
		att := att
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.encodePreview(att)
		}()
	}
	return nil
}

// encodePreview produces the data-URL preview for one attachment. Images
// that no registered decoder accepts keep an empty preview.
func (l *Attachments) encodePreview(att *Attachment) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(att.Data)); err != nil {
		return
	}
	encoded := dataURL(att.mime, att.Data)

	l.mu.Lock()
	att.preview = encoded
	l.mu.Unlock()
}

// WaitPreviews blocks until all pending preview encodes settle.
// Parameters: none.
// Returns: none.
func (l *Attachments) WaitPreviews() {
	l.wg.Wait()
}

// EncodeAll converts every attachment into its transport encoding. The
// caller must drop the returned slice as soon as the submission settles so
// encoded payloads do not linger in memory.
// Parameters: none.
// Returns:
//   - []string: data-URL encoding per attachment, in order.
func (l *Attachments) EncodeAll() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	encoded := make([]string, 0, len(l.items))
	for _, att := range l.items {
		encoded = append(encoded, dataURL(att.mime, att.Data))
	}
	return encoded
}

// Clear drops all attachments and previews.
// Parameters: none.
// Returns: none.
func (l *Attachments) Clear() {
	l.mu.Lock()
	l.items = nil
	l.mu.Unlock()
}

// Count returns the number of attached images.
// Parameters: none.
// Returns:
//   - int: attachment count.
func (l *Attachments) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Previews returns the preview encodings produced so far, skipping items
// whose background encode has not finished or failed.
// Parameters: none.
// Returns:
//   - []string: available preview data URLs, in attachment order.
func (l *Attachments) Previews() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	previews := make([]string, 0, len(l.items))
	for _, att := range l.items {
		if att.preview != "" {
			previews = append(previews, att.preview)
		}
	}
	return previews
}

// imageMIME resolves the MIME type for a selected file, sniffing the bytes
// when the reported content type is missing. Non-images resolve to "".
func imageMIME(f FileInput) string {
	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if ct != "" {
		if strings.HasPrefix(ct, "image/") {
			return ct
		}
		return ""
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		return ""
	}
	return mimeForFormat(format)
}

// mimeForFormat maps an image.DecodeConfig format name to a MIME type.
func mimeForFormat(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// dataURL builds the data-URL encoding the generation API accepts.
func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
