// Package fileslot 基于 go-billy 文件系统的槽位，每个键对应目录下的一个 JSON 文件
package fileslot

import (
	"context"
	stdErrors "errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"katalog/persistence/slot"
)

const fileExt = ".json"

// Slot 文件槽位
//
// 写入先落到同目录的临时文件再 Rename，读方不会看到写了一半的内容。
type Slot struct {
	fs billy.Filesystem
}

// New 在给定文件系统的根目录上创建槽位
func New(fs billy.Filesystem) *Slot {
	return &Slot{fs: fs}
}

// NewOS 以本地目录 dir 为根创建槽位，目录不存在时创建
func NewOS(dir string) (*Slot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("fileslot: mkdir %q: %w", dir, err)
	}
	return New(osfs.New(dir)), nil
}

// NewMemory 创建内存文件系统上的槽位
func NewMemory() *Slot {
	return New(memfs.New())
}

func (s *Slot) Read(ctx context.Context, key string) ([]byte, error) {
	name, err := fileName(key)
	if err != nil {
		return nil, err
	}
	data, err := util.ReadFile(s.fs, name)
	if err != nil {
		if stdErrors.Is(err, os.ErrNotExist) {
			return nil, slot.ErrEmpty
		}
		return nil, fmt.Errorf("fileslot: read %q: %w", name, err)
	}
	return data, nil
}

func (s *Slot) Write(ctx context.Context, key string, data []byte) error {
	name, err := fileName(key)
	if err != nil {
		return err
	}

	tmp, err := util.TempFile(s.fs, "", "."+key+"-")
	if err != nil {
		return fmt.Errorf("fileslot: create temp for %q: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("fileslot: write %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("fileslot: close %q: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, name); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("fileslot: rename %q -> %q: %w", tmpName, name, err)
	}
	return nil
}

func (s *Slot) Backend() string { return "file" }

// Path 返回键对应的文件路径（相对文件系统根）
func (s *Slot) Path(key string) string {
	name, _ := fileName(key)
	return path.Join(s.fs.Root(), name)
}

func fileName(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("fileslot: invalid key %q", key)
	}
	return key + fileExt, nil
}
