package core

import "fmt"

// ContentETag returns a strong entity tag for an asset body.
func ContentETag(content []byte) string {
	var sum uint64 = 14695981039346656037
	for _, b := range content {
		sum ^= uint64(b)
		sum *= 1099511628211
	}
	return fmt.Sprintf(`"%016x-%x"`, sum, len(content))
}
