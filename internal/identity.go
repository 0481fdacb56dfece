package internal

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
)

// IdentityHash returns the hex MD5 digest of a raw account identifier.
// Chat table names and group rosters reference contacts through this same
// digest, so the identifier must be hashed exactly as stored: no trimming,
// no case folding.
func IdentityHash(accountID string) string {
	sum := md5.Sum([]byte(accountID))
	return hex.EncodeToString(sum[:])
}

// StorageKey returns the hex SHA1 digest of "domain-relativePath", the
// content-addressed file name binary-manifest backups store files under.
func StorageKey(domain, relativePath string) string {
	sum := sha1.Sum([]byte(domain + "-" + relativePath))
	return hex.EncodeToString(sum[:])
}
