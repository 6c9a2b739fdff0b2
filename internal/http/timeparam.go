package httpapi

import (
	"net/http"
	"strings"
	"time"
)

// 接受的 ISO-8601 形式；不带时区的按 UTC 处理
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp 解析时间参数，结果统一为 UTC
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := parseWithLayouts(s); ok {
		return t, true
	}
	// 未编码的 "+02:00" 在查询串中会被解码为空格
	if i := strings.LastIndex(s, " "); i > len("2006-01-02") {
		return parseWithLayouts(s[:i] + "+" + s[i+1:])
	}
	return time.Time{}, false
}

func parseWithLayouts(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// requiredTime 必填时间参数
func requiredTime(r *http.Request, name string) (time.Time, error) {
	q := r.URL.Query()
	if !q.Has(name) || strings.TrimSpace(q.Get(name)) == "" {
		return time.Time{}, &ParameterError{Parameter: name, Err: ErrMissingParameter}
	}
	t, ok := parseTimestamp(q.Get(name))
	if !ok {
		return time.Time{}, &ParameterError{Parameter: name, Value: q.Get(name), Err: ErrMalformedTimestamp}
	}
	return t, nil
}

// optionalTime 可选时间参数；缺省返回 nil
func optionalTime(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	t, ok := parseTimestamp(raw)
	if !ok {
		return nil, &ParameterError{Parameter: name, Value: raw, Err: ErrMalformedTimestamp}
	}
	return &t, nil
}

// formatTime 输出 RFC 3339（UTC）
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
