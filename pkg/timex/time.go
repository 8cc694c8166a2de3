package timex

import (
	"strconv"
	"time"
)

// Time is a time.Time that travels over JSON as Unix milliseconds.
// Time 在 JSON 中以 Unix 毫秒数表示
type Time time.Time

// Now 当前时间
func Now() Time {
	return Time(time.Now())
}

// FromMilli builds a Time from Unix milliseconds.
func FromMilli(ms int64) Time {
	return Time(time.UnixMilli(ms))
}

func (t Time) Std() time.Time {
	return time.Time(t)
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) String() string {
	return time.Time(t).Format(time.RFC3339Nano)
}

// MarshalJSON 序列化为毫秒时间戳，零值为 0
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("0"), nil
	}
	return strconv.AppendInt(nil, t.UnixMilli(), 10), nil
}

// UnmarshalJSON accepts a millisecond number or null.
// UnmarshalJSON 接受毫秒时间戳或 null
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == "0" {
		*t = Time{}
		return nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*t = FromMilli(ms)
	return nil
}
