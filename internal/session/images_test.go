package session

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// pngBytes returns a minimal valid PNG for decoder-sniffing tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestAttachments_AddFiltersNonImages(t *testing.T) {
	l := NewAttachments()
	err := l.Add([]FileInput{
		{Name: "photo.png", ContentType: "image/png", Data: []byte("a")},
		{Name: "notes.txt", ContentType: "text/plain", Data: []byte("b")},
		{Name: "doc.pdf", ContentType: "application/pdf", Data: []byte("c")},
		{Name: "photo.jpg", ContentType: "image/jpeg", Data: []byte("d")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Count() != 2 {
		t.Errorf("expected 2 admitted attachments, got %d", l.Count())
	}
}

func TestAttachments_SniffWhenContentTypeMissing(t *testing.T) {
	l := NewAttachments()
	err := l.Add([]FileInput{
		{Name: "anon", Data: pngBytes(t)},
		{Name: "junk", Data: []byte("definitely not an image")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Count() != 1 {
		t.Errorf("expected only the sniffed png admitted, got %d", l.Count())
	}
}

func TestAttachments_BatchRejectedAtLimit(t *testing.T) {
	l := NewAttachments()

	first := make([]FileInput, 4)
	for i := range first {
		first[i] = FileInput{Name: "a", ContentType: "image/png", Data: []byte{byte(i)}}
	}
	if err := l.Add(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 4 + 2 > 5: the whole batch is rejected, not truncated
	overflow := []FileInput{
		{Name: "b", ContentType: "image/png", Data: []byte("x")},
		{Name: "c", ContentType: "image/png", Data: []byte("y")},
	}
	err := l.Add(overflow)
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if l.Count() != 4 {
		t.Errorf("rejected batch must not change the list, got %d", l.Count())
	}

	// A batch that fits still goes in
	if err := l.Add(overflow[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Count() != MaxAttachments {
		t.Errorf("expected %d attachments, got %d", MaxAttachments, l.Count())
	}
}

func TestAttachments_FilteredBatchCountsAfterFiltering(t *testing.T) {
	l := NewAttachments()

	first := make([]FileInput, 4)
	for i := range first {
		first[i] = FileInput{Name: "a", ContentType: "image/jpeg", Data: []byte{byte(i)}}
	}
	if err := l.Add(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3 selected but only 1 image: 4 + 1 fits
	mixed := []FileInput{
		{Name: "text", ContentType: "text/plain", Data: []byte("t")},
		{Name: "img", ContentType: "image/png", Data: []byte("i")},
		{Name: "pdf", ContentType: "application/pdf", Data: []byte("p")},
	}
	if err := l.Add(mixed); err != nil {
		t.Fatalf("filtered batch should fit: %v", err)
	}
	if l.Count() != 5 {
		t.Errorf("expected 5 attachments, got %d", l.Count())
	}
}

func TestAttachments_EncodeAll(t *testing.T) {
	l := NewAttachments()
	data := []byte("payload")
	if err := l.Add([]FileInput{{Name: "a", ContentType: "image/jpeg", Data: data}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	encoded := l.EncodeAll()
	if len(encoded) != 1 {
		t.Fatalf("expected 1 encoding, got %d", len(encoded))
	}
	want := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
	if encoded[0] != want {
		t.Errorf("expected %q, got %q", want, encoded[0])
	}
}

func TestAttachments_PreviewLifecycle(t *testing.T) {
	l := NewAttachments()
	if err := l.Add([]FileInput{
		{Name: "real.png", ContentType: "image/png", Data: pngBytes(t)},
		{Name: "broken.png", ContentType: "image/png", Data: []byte("corrupt")},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l.WaitPreviews()

	// The corrupt image stays attached but produces no preview
	if l.Count() != 2 {
		t.Errorf("preview failure must not drop the attachment, got %d", l.Count())
	}
	previews := l.Previews()
	if len(previews) != 1 {
		t.Fatalf("expected 1 preview, got %d", len(previews))
	}
	if !strings.HasPrefix(previews[0], "data:image/png;base64,") {
		t.Errorf("unexpected preview encoding %q", previews[0])
	}
}

func TestAttachments_PreviewsDuringEncode(t *testing.T) {
	l := NewAttachments()

	// Read previews concurrently with the background encodes; every read
	// must observe a consistent snapshot.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			for _, p := range l.Previews() {
				if !strings.HasPrefix(p, "data:image/png;base64,") {
					t.Errorf("unexpected preview encoding %q", p)
					return
				}
			}
		}
	}()

	if err := l.Add([]FileInput{
		{Name: "a.png", ContentType: "image/png", Data: pngBytes(t)},
		{Name: "b.png", ContentType: "image/png", Data: pngBytes(t)},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.WaitPreviews()
	<-done

	if got := len(l.Previews()); got != 2 {
		t.Errorf("expected 2 previews after encodes settle, got %d", got)
	}
}

func TestAttachments_Clear(t *testing.T) {
	l := NewAttachments()
	if err := l.Add([]FileInput{{Name: "a", ContentType: "image/png", Data: []byte("x")}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Clear()
	if l.Count() != 0 {
		t.Errorf("expected empty list after clear, got %d", l.Count())
	}
	if got := l.EncodeAll(); len(got) != 0 {
		t.Errorf("expected no encodings after clear, got %v", got)
	}
}
