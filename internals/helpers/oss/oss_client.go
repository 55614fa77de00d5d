// internals/helpers/oss/oss_client.go
package helper

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func envInt(key string, def int) int {
	if v := getEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float32) float32 {
	if v := getEnv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil && f >= 0 {
			return float32(f)
		}
	}
	return def
}

var (
	MaxIconUploadSize = int64(5 * 1024 * 1024)

	ErrUnsupportedImage = errors.New("format gambar tidak didukung (pakai jpg/png/webp)")
	ErrEmptyImage       = errors.New("empty file")
)

/* =======================================================================
   Icon: decode → center-crop persegi → WebP
======================================================================= */

type IconOptions struct {
	Size     int     // sisi persegi (px)
	Quality  float32 // WebP lossy quality
	TargetKB int     // 0 = non-aktif
	MinQ     float32
}

func DefaultIconOptionsFromEnv() IconOptions {
	return IconOptions{
		Size:     envInt("ICON_SIZE", 256),
		Quality:  envFloat("ICON_WEBP_QUALITY", 82),
		TargetKB: envInt("ICON_WEBP_TARGET_KB", 40),
		MinQ:     envFloat("ICON_WEBP_MIN_Q", 45),
	}
}

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, ErrEmptyImage
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(all))
	}
	// fallback by extension
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(bytes.NewReader(all))
	case ".png":
		return png.Decode(bytes.NewReader(all))
	case ".webp":
		return webp.Decode(bytes.NewReader(all))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
}

// squareIcon: crop tengah jadi persegi lalu resize ke size×size
func squareIcon(src image.Image, size int) image.Image {
	if size <= 0 {
		size = 256
	}
	cropped := imaging.Fill(src, size, size, imaging.Center, imaging.Lanczos)
	// normalisasi ke RGBA agar encoder webp tidak perlu konversi lagi
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), cropped, cropped.Bounds().Min, draw.Src)
	return dst
}

// encodeWebP: TargetKB > 0 → binary search quality (MinQ..Quality)
func encodeWebP(img image.Image, opt IconOptions) ([]byte, error) {
	encodeQ := func(q float32) ([]byte, error) {
		buf := new(bytes.Buffer)
		if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	maxQ := opt.Quality
	if maxQ <= 0 {
		maxQ = 82
	}
	first, err := encodeQ(maxQ)
	if err != nil || opt.TargetKB <= 0 || len(first) <= opt.TargetKB*1024 {
		return first, err
	}

	minQ := opt.MinQ
	if minQ <= 0 || minQ > maxQ {
		minQ = 45
	}
	target := opt.TargetKB * 1024
	low, high := minQ, maxQ
	best := []byte(nil)
	for i := 0; i < 7; i++ {
		q := (low + high) / 2
		data, err := encodeQ(q)
		if err != nil {
			return nil, err
		}
		if len(data) <= target {
			best = data
			low = q // masih muat → coba kualitas lebih tinggi
		} else {
			high = q
		}
	}
	if best == nil {
		return encodeQ(minQ)
	}
	return best, nil
}

// PrepareIcon: bytes gambar → WebP persegi
func PrepareIcon(all []byte, filename string, opt IconOptions) ([]byte, error) {
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}
	return encodeWebP(squareIcon(img, opt.Size), opt)
}

/* =======================================================================
   OSS Service
======================================================================= */

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string // optional: "mamamire/"
	Icon       IconOptions
}

func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := getEnv("ALI_OSS_ENDPOINT")
	ak := getEnv("ALI_OSS_ACCESS_KEY")
	sk := getEnv("ALI_OSS_SECRET_KEY")
	sts := getEnv("ALI_OSS_SECURITY_TOKEN")
	bucketName := getEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if sts != "" {
		client, err = oss.New(endpoint, ak, sk, oss.SecurityToken(sts))
	} else {
		client, err = oss.New(endpoint, ak, sk)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	log.Printf("[OSS] bucket %s siap (endpoint=%s)", bucketName, endpoint)

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		Prefix:     strings.Trim(prefix, "/"),
		Icon:       DefaultIconOptionsFromEnv(),
	}, nil
}

// UploadIcon: multipart → WebP persegi → PutObject → public URL.
// dir contoh: "kindergartens/{id}/icon"
func (s *OSSService) UploadIcon(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fmt.Errorf("nil file header")
	}
	if fh.Size > MaxIconUploadSize {
		return "", fmt.Errorf("file too large (max %d bytes)", MaxIconUploadSize)
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	all, err := io.ReadAll(io.LimitReader(src, MaxIconUploadSize+1))
	if err != nil {
		return "", err
	}
	data, err := PrepareIcon(all, fh.Filename, s.Icon)
	if err != nil {
		return "", err
	}

	key := s.buildObjectKey(dir, "icon.webp")
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType("image/webp"),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.Bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

func (s *OSSService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key, err := ExtractKeyFromPublicURL(publicURL)
	if err != nil {
		return fmt.Errorf("extract key: %w", err)
	}
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

/* =======================================================================
   Public URL & Key utils
======================================================================= */

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if base := getEnv("ALI_OSS_PUBLIC_BASE"); base != "" {
		return strings.TrimRight(base, "/") + "/" + key
	}
	if s.Endpoint == "" || s.BucketName == "" {
		return ""
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

func ExtractKeyFromPublicURL(publicURL string) (string, error) {
	if strings.TrimSpace(publicURL) == "" {
		return "", fmt.Errorf("empty url")
	}
	if base := getEnv("ALI_OSS_PUBLIC_BASE"); base != "" {
		base = strings.TrimRight(base, "/") + "/"
		if strings.HasPrefix(publicURL, base) {
			return strings.TrimPrefix(publicURL, base), nil
		}
	}
	u := publicURL
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.Index(u, "/"); i >= 0 && i+1 < len(u) {
		return u[i+1:], nil
	}
	return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
}

func (s *OSSService) buildObjectKey(dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, ext)
	if base == "" {
		base = "file"
	}
	parts := make([]string, 0, 3)
	if s.Prefix != "" {
		parts = append(parts, s.Prefix)
	}
	if dir = strings.Trim(dir, "/"); dir != "" {
		parts = append(parts, dir)
	}
	ts := time.Now().Format("20060102_150405")
	parts = append(parts, fmt.Sprintf("%s_%s_%s%s", base, ts, randHex(3), ext))
	return strings.Join(parts, "/")
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func init() {
	_ = mime.AddExtensionType(".webp", "image/webp")
}
