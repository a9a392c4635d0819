package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// WriteCSV 将表头和数据行写入 CSV 文件，返回数据行数。
func WriteCSV(path string, header []string, rows [][]string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("创建输出目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("创建文件 %s 失败: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return 0, fmt.Errorf("写入表头失败: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return 0, fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("刷新 %s 失败: %w", path, err)
	}
	return len(rows), nil
}
