package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// 画像を保存してURLを返す約束。
// 呼び出し側は保存先を知らない。
type ImageStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (url string, err error)
}

// ローカルディスク実装。
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir string, baseURL string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalImageStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// 衝突しないファイル名で保存してURLを返す。
func (s *LocalImageStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write image file: %w", err)
	}

	return s.baseURL + "/" + name, nil
}
