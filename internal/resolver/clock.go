package resolver

import "time"

// Clock 提供"当前时间"，测试中替换为固定时间
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时间（UTC）
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock 固定时间
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
