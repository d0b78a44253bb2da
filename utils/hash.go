package utils

import (
	"crypto/sha256"
	"crypto/subtle"
)

// SecretEqual 常量时间比较两个明文，先做 sha256 摘要以消除长度差异带来的时序泄漏
func SecretEqual(a, b string) bool {
	sa := sha256.Sum256([]byte(a))
	sb := sha256.Sum256([]byte(b))

	return subtle.ConstantTimeCompare(sa[:], sb[:]) == 1
}
