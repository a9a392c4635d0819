// Package model 定义数据集中的所有实体类型及其有序序列化契约。
package model

import "time"

// TimestampLayout 是所有时间字段序列化时使用的 ISO-8601 格式。
const TimestampLayout = "2006-01-02T15:04:05"

// Field 表示序列化记录中的一个键值对。
type Field struct {
	Key   string
	Value interface{}
}

// Record 是所有实体共同实现的序列化能力接口。
// Fields 返回的字段顺序即为输出文件中的字段顺序，写入层只依赖该接口。
type Record interface {
	// RecordID 返回实体的唯一标识。
	RecordID() string
	// Fields 返回按固定顺序排列的字段键值对。
	Fields() []Field
}

// OrderedMap 是嵌套在记录内的有序键值对集合，序列化时保持声明顺序。
type OrderedMap []Field

// FormatTime 将时间格式化为 ISO-8601 字符串，零值时间返回 nil。
func FormatTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(TimestampLayout)
}
