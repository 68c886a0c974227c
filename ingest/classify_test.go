package ingest

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"photo.png", KindImage},
		{"photo.PNG", KindImage},
		{"scan.jpeg", KindImage},
		{"scan.JpG", KindImage},
		{"plate.tif", KindImage},
		{"plate.tiff", KindImage},
		{"sticker.webp", KindImage},
		{"old.bmp", KindImage},
		{"anim.gif", KindImage},
		{"favicon.ico", KindImage},
		{"shot.heic", KindImage},
		{"shot.heif", KindImage},
		{"report.pdf", KindPDF},
		{"Report.PDF", KindPDF},
		{"/some/dir/deck.pdf", KindPDF},
		{"notes.txt", KindUnsupported},
		{"archive.zip", KindUnsupported},
		{"vector.svg", KindUnsupported},
		{"noextension", KindUnsupported},
		{"trailingdot.", KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
