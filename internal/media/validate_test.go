package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"courtiq/internal/model"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		wantOK   bool
	}{
		{name: "mp4", mimeType: "video/mp4", wantOK: true},
		{name: "quicktime", mimeType: "video/quicktime", wantOK: true},
		{name: "avi", mimeType: "video/x-msvideo", wantOK: true},
		{name: "pdf", mimeType: "application/pdf", wantOK: false},
		{name: "webm", mimeType: "video/webm", wantOK: false},
		{name: "plain text", mimeType: "text/plain", wantOK: false},
		{name: "empty type", mimeType: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(model.MediaFile{Name: "clip", MIMEType: tt.mimeType})
			if tt.wantOK {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want rejection")
			}
			var ei *model.ErrorInfo
			if !errors.As(err, &ei) {
				t.Fatalf("Validate() returned %T, want *model.ErrorInfo", err)
			}
			if ei.Class != model.ErrClientSetup {
				t.Errorf("Validate() class = %v, want client_setup", ei.Class)
			}
			if ei.Message == "" {
				t.Errorf("Validate() rejection has empty reason")
			}
		})
	}
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, size int) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, make([]byte, size), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		return p
	}

	t.Run("mp4 file", func(t *testing.T) {
		p := write("game.MP4", 128)
		f, err := FromPath(p)
		if err != nil {
			t.Fatalf("FromPath() error = %v", err)
		}
		if f.MIMEType != "video/mp4" {
			t.Errorf("MIMEType = %q, want video/mp4", f.MIMEType)
		}
		if f.Name != "game.MP4" {
			t.Errorf("Name = %q, want game.MP4", f.Name)
		}
		if f.SizeBytes != 128 {
			t.Errorf("SizeBytes = %d, want 128", f.SizeBytes)
		}
	})

	t.Run("unknown extension yields empty type", func(t *testing.T) {
		p := write("notes.pdf", 10)
		f, err := FromPath(p)
		if err != nil {
			t.Fatalf("FromPath() error = %v", err)
		}
		if f.MIMEType != "" {
			t.Errorf("MIMEType = %q, want empty", f.MIMEType)
		}
		if Validate(f) == nil {
			t.Errorf("Validate() accepted a .pdf file")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := FromPath(filepath.Join(dir, "nope.mp4")); err == nil {
			t.Fatalf("FromPath() = nil error for missing file")
		}
	})

	t.Run("directory", func(t *testing.T) {
		if _, err := FromPath(dir); err == nil {
			t.Fatalf("FromPath() = nil error for directory")
		}
	})
}
