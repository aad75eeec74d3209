package config

import "runtime"

// getCpus 默认 worker 数量：max(2, CPU 核心数)
func getCpus() int {
	n := runtime.NumCPU()
	if n < 2 {
		return 2
	}
	return n
}
