// Package media stores user-uploaded images on the local filesystem.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"bookshelf/internal/observability"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

// maxAvatarDim bounds the longest edge of a stored avatar.
const maxAvatarDim = 512

// maxAvatarBytes rejects absurdly large uploads before decoding.
const maxAvatarBytes = 8 << 20

// Store persists avatar images under a media root directory.
// The on-disk layout is <root>/accounts/user_image/<userID>/avatar.webp.
type Store struct {
	root string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// SaveAvatar decodes, downscales and re-encodes the uploaded image as webp,
// replacing any previous avatar for the user. It returns the path relative to
// the media root.
func (s *Store) SaveAvatar(userID uint, data []byte) (string, error) {
	if len(data) == 0 {
		observability.AvatarsProcessedTotal.WithLabelValues("rejected").Inc()
		return "", fmt.Errorf("empty image upload")
	}
	if len(data) > maxAvatarBytes {
		observability.AvatarsProcessedTotal.WithLabelValues("rejected").Inc()
		return "", fmt.Errorf("image exceeds %d bytes", maxAvatarBytes)
	}

	img, err := decodeImage(data)
	if err != nil {
		observability.AvatarsProcessedTotal.WithLabelValues("rejected").Inc()
		return "", fmt.Errorf("unsupported image format: %w", err)
	}

	img = downscale(img, maxAvatarDim)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: 85}); err != nil {
		observability.AvatarsProcessedTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("encode avatar: %w", err)
	}

	rel := filepath.Join("accounts", "user_image", fmt.Sprint(userID), "avatar.webp")
	abs := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		observability.AvatarsProcessedTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("create avatar directory: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		observability.AvatarsProcessedTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("write avatar: %w", err)
	}

	observability.AvatarsProcessedTotal.WithLabelValues("ok").Inc()
	return rel, nil
}

// RemoveUserDir deletes every stored image for the user. Missing directories
// are not an error; account deletion calls this best-effort.
func (s *Store) RemoveUserDir(userID uint) error {
	dir := filepath.Join(s.root, "accounts", "user_image", fmt.Sprint(userID))
	return os.RemoveAll(dir)
}

// AbsPath resolves a stored relative path against the media root.
func (s *Store) AbsPath(rel string) string {
	return filepath.Join(s.root, rel)
}

// decodeImage handles jpeg, png and gif through image.Decode, with a webp
// fallback since webp does not self-register.
func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}
	if wimg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return wimg, nil
	}
	return nil, err
}

// downscale shrinks img so its longest edge is at most maxDim. Smaller images
// pass through untouched.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
