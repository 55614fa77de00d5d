package helper

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 120, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPrepareIcon_SquareWebP(t *testing.T) {
	out, err := PrepareIcon(pngBytes(t, 400, 200), "logo.png", IconOptions{Size: 128, Quality: 80})
	if err != nil {
		t.Fatalf("PrepareIcon: %v", err)
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("hasil bukan webp: %v", err)
	}
	if cfg.Width != 128 || cfg.Height != 128 {
		t.Fatalf("ukuran = %dx%d, want 128x128", cfg.Width, cfg.Height)
	}
}

func TestPrepareIcon_Rejects(t *testing.T) {
	if _, err := PrepareIcon(nil, "x.png", IconOptions{}); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("err = %v, want ErrEmptyImage", err)
	}
	if _, err := PrepareIcon([]byte("hello world"), "x.txt", IconOptions{}); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("err = %v, want ErrUnsupportedImage", err)
	}
}

func TestExtractKeyFromPublicURL(t *testing.T) {
	t.Setenv("ALI_OSS_PUBLIC_BASE", "")
	cases := []struct {
		url, want string
		wantErr   bool
	}{
		{"https://bkt.oss-ap-northeast-1.aliyuncs.com/kindergartens/a/icon.webp", "kindergartens/a/icon.webp", false},
		{"", "", true},
		{"https://host-only", "", true},
	}
	for _, tc := range cases {
		got, err := ExtractKeyFromPublicURL(tc.url)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%q: err = %v", tc.url, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.url, got, tc.want)
		}
	}
}

func TestPublicURLAndKey(t *testing.T) {
	t.Setenv("ALI_OSS_PUBLIC_BASE", "")
	s := &OSSService{Endpoint: "https://oss-ap-northeast-1.aliyuncs.com", BucketName: "mmr", Prefix: "mamamire"}
	key := s.buildObjectKey("/kindergartens/k1/icon/", "icon.webp")
	if !strings.HasPrefix(key, "mamamire/kindergartens/k1/icon/icon_") || !strings.HasSuffix(key, ".webp") {
		t.Fatalf("key = %q", key)
	}
	if got := s.PublicURL(key); got != "https://mmr.oss-ap-northeast-1.aliyuncs.com/"+key {
		t.Fatalf("PublicURL = %q", got)
	}

	t.Setenv("ALI_OSS_PUBLIC_BASE", "https://cdn.example.com/")
	if got := s.PublicURL("a/b.webp"); got != "https://cdn.example.com/a/b.webp" {
		t.Fatalf("PublicURL(cdn) = %q", got)
	}
	k, err := ExtractKeyFromPublicURL("https://cdn.example.com/a/b.webp")
	if err != nil || k != "a/b.webp" {
		t.Fatalf("extract cdn = %q, %v", k, err)
	}
}
