package util

import (
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
)

var machineIDOnce = sync.OnceValue(loadMachineID)

// GetMachineID returns a stable host identifier used to bind signing keys to the machine.
// An empty string means none could be read.
// GetMachineID 获取本机唯一标识，获取失败返回空字符串
func GetMachineID() string {
	return machineIDOnce()
}

func loadMachineID() string {
	if id, err := machineid.ID(); err == nil && id != "" {
		return id
	}
	// 容器内通常没有 machine-id，退回主板序列号
	if runtime.GOOS == "linux" {
		if b, err := os.ReadFile("/sys/class/dmi/id/board_serial"); err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	return ""
}
