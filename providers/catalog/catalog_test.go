package catalog

import "testing"

func TestRegisterAndLookup(t *testing.T) {
	Register(FormatInfo{
		ID:         "html5",
		Extensions: []string{".html", ".HTM"},
		MIMETypes:  []string{"text/html"},
	})

	if info, ok := LookupByExtension(".html"); !ok || info.ID != "html5" {
		t.Fatalf("expected html5 for .html, got %v %v", info, ok)
	}

	if info, ok := LookupByExtension("htm"); !ok || info.ID != "html5" {
		t.Fatalf("expected html5 for htm, got %v %v", info, ok)
	}

	if info, ok := LookupByMIME("text/html"); !ok || info.ID != "html5" {
		t.Fatalf("expected html5 for text/html, got %v %v", info, ok)
	}

	formats := Formats()
	if len(formats) == 0 {
		t.Fatal("expected formats slice not empty")
	}
}
