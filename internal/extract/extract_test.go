package extract

import (
	"errors"
	"testing"
)

func TestFromBytesUnsupportedKind(t *testing.T) {
	_, err := FromBytes([]byte("anything"), "mp3")
	if !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
}

func TestFromBytesEmptyDocx(t *testing.T) {
	_, err := FromBytes(nil, "docx")
	if err == nil {
		t.Fatalf("expected error for empty docx payload")
	}
}

func TestStripDocxXMLParagraphBreaks(t *testing.T) {
	raw := `<w:document><w:body><w:p><w:r><w:t>First line</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Second</w:t><w:t> line</w:t></w:r></w:p></w:body></w:document>`
	got := stripDocxXML(raw)
	want := "First line\nSecond line"
	if got != want {
		t.Fatalf("stripDocxXML: got %q, want %q", got, want)
	}
}

func TestStripDocxXMLWhitespaceOnlyFailsExtraction(t *testing.T) {
	raw := `<w:document><w:body><w:p><w:r><w:t>   </w:t></w:r></w:p></w:body></w:document>`
	if got := stripDocxXML(raw); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}
