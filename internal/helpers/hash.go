package helpers

import (
	"crypto/md5"
	"fmt"
)

// Hash is an utility to determine a MD5 hash (acceptable as not used for security reasons).
func Hash(bytes []byte) string {
	h := md5.New()
	h.Write(bytes)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// HashLink returns the hash used to name a copied attachment.
// The same link text always produces the same name.
func HashLink(link string) string {
	return Hash([]byte(link))
}
