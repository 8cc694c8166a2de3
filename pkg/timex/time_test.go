package timex

import (
	"testing"
	"time"
)

func TestTime_UnixMethods(t *testing.T) {
	// Create a fixed time
	// 创建一个固定时间
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	// Test Unix()
	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() = %v, want %v", tt.Unix(), now.Unix())
	}

	// Test UnixMilli()
	if tt.UnixMilli() != now.UnixMilli() {
		t.Errorf("UnixMilli() = %v, want %v", tt.UnixMilli(), now.UnixMilli())
	}

	// Test UnixMicro()
	if tt.UnixMicro() != now.UnixMicro() {
		t.Errorf("UnixMicro() = %v, want %v", tt.UnixMicro(), now.UnixMicro())
	}

	// Test UnixNano()
	if tt.UnixNano() != now.UnixNano() {
		t.Errorf("UnixNano() = %v, want %v", tt.UnixNano(), now.UnixNano())
	}

	// Verify it's not returning time.Now() by waiting a bit
	// 通过等待一会确认它不是返回 time.Now()
	time.Sleep(10 * time.Millisecond)
	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() changed after sleep, it should be static. got %v, want %v", tt.Unix(), now.Unix())
	}
}

func TestTime_JSON(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	b, err := tt.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(b) != "1704110400000" {
		t.Errorf("MarshalJSON() = %s, want 1704110400000", b)
	}

	var back Time
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if !back.Std().Equal(now) {
		t.Errorf("UnmarshalJSON() = %v, want %v", back.Std(), now)
	}

	var zero Time
	b, _ = zero.MarshalJSON()
	if string(b) != "0" {
		t.Errorf("zero MarshalJSON() = %s, want 0", b)
	}
	if err := back.UnmarshalJSON([]byte("null")); err != nil || !back.IsZero() {
		t.Errorf("UnmarshalJSON(null) = %v, %v; want zero", back, err)
	}
}
