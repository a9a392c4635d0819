package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"org-synth-go/internal/model"
)

// encodeValue 将字段值追加编码到缓冲区。切片和有序对象递归处理，
// 其余类型交给标准编码器，保持与字段声明一致的键序。
func encodeValue(buf *bytes.Buffer, v interface{}) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case model.OrderedMap:
		return encodeFields(buf, val)
	case []model.Field:
		return encodeFields(buf, val)
	case []string:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("编码字段值失败: %w", err)
		}
		buf.Write(raw)
	}
	return nil
}

func encodeFields(buf *bytes.Buffer, fields []model.Field) error {
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return fmt.Errorf("编码字段键失败: %w", err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := encodeValue(buf, f.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// EncodeRecord 按记录声明的字段顺序编码为一行紧凑 JSON。
func EncodeRecord(rec model.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeFields(&buf, rec.Fields()); err != nil {
		return nil, fmt.Errorf("编码记录 %s 失败: %w", rec.RecordID(), err)
	}
	return buf.Bytes(), nil
}

// WriteJSONL 将记录逐行写入 JSONL 文件，返回写入条数。
func WriteJSONL[T model.Record](path string, items []T) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("创建输出目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("创建文件 %s 失败: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, item := range items {
		line, err := EncodeRecord(item)
		if err != nil {
			return 0, err
		}
		if _, err := w.Write(line); err != nil {
			return 0, fmt.Errorf("写入 %s 失败: %w", path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return 0, fmt.Errorf("写入 %s 失败: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("刷新 %s 失败: %w", path, err)
	}
	return len(items), nil
}
