package janitor

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"match-system/pkg/logger"

	"go.uber.org/zap"
)

// Janitor 负责删除用户相关的磁盘文件（头像、相册、聊天附件）
// 所有路径为相对上传根目录的相对路径
// 尽力而为：文件不存在不算错误，单个文件失败只记录日志，从不向调用方抛错

type Janitor struct {
	root string // 上传文件根目录
}

// 常规缩略图命名变体，插入在扩展名之前
// 例如 photo.jpg -> photo_thumb.jpg / photo_small.jpg / photo_medium.jpg
var thumbnailSuffixes = []string{"_thumb", "_small", "_medium"}

// New 创建Janitor实例
func New(root string) *Janitor {
	return &Janitor{root: root}
}

// RemoveFiles 删除一组文件及其缩略图变体
// 返回实际删除的文件数
func (j *Janitor) RemoveFiles(relPaths []string) int {
	removed := 0
	for _, rel := range relPaths {
		if rel == "" {
			continue
		}
		for _, candidate := range j.candidates(rel) {
			if j.removeOne(candidate) {
				removed++
			}
		}
	}
	return removed
}

// candidates 返回文件本体及其缩略图变体的绝对路径列表
// 拒绝逃逸出上传根目录的路径
func (j *Janitor) candidates(rel string) []string {
	cleaned := filepath.Clean(rel)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		logger.Warn("忽略非法文件路径", zap.String("path", rel))
		return nil
	}

	full := filepath.Join(j.root, cleaned)
	paths := []string{full}

	ext := filepath.Ext(full)
	base := strings.TrimSuffix(full, ext)
	for _, suffix := range thumbnailSuffixes {
		paths = append(paths, base+suffix+ext)
	}

	return paths
}

// removeOne 删除单个文件，返回是否实际删除
func (j *Janitor) removeOne(path string) bool {
	err := os.Remove(path)
	if err == nil {
		logger.Debug("已删除文件", zap.String("path", path))
		return true
	}
	if errors.Is(err, fs.ErrNotExist) {
		// 文件已不存在，视为正常
		return false
	}
	logger.Warn("删除文件失败", zap.String("path", path), zap.Error(err))
	return false
}
