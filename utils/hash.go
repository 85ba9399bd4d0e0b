// Package utils provides hashing, deterministic sampling and safe allocation
// helpers for gray-scott-go.
package utils

import (
	"golang.org/x/crypto/sha3"
)

// HashWithDomain computes a domain-separated SHA3-256 hash.
// It prefixes the data with the length of the domain string and the domain
// string itself, preventing collisions between different uses of the hash.
// Panics if domain is longer than 255 bytes.
func HashWithDomain(domain string, data []byte) []byte {
	domainBytes := []byte(domain)
	if len(domainBytes) > 255 {
		panic("domain string must be at most 255 bytes")
	}
	h := sha3.New256()
	h.Write([]byte{byte(len(domainBytes))})
	h.Write(domainBytes)
	h.Write(data)
	return h.Sum(nil)
}
