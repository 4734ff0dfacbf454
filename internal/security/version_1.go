package security

import (
	"crypto/sha512"
	"encoding/ascii85"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// Expose our record so it can be added to the version list.
var hashVersionRecord1 = hashVersionRecord{hashVersionNumber1, hash1}

const hashVersionNumber1 hashVersionNumber = 1

const stretchCount = 10000

// hash1 is a salted, stretched SHA-512. The plaintext is encoded with
// four reversible text encodings to build four salt variants; each of
// the 10000 rounds picks one salt round-robin, interleaves it with the
// running digest as data+salt+data+salt+data+salt, and rehashes. The
// salts derive from the plaintext itself, keeping the whole scheme
// deterministic.
//
// The base-85 salt uses the ascii85 (Adobe) alphabet. A system that
// builds the same salt with an RFC 1924 encoder produces different
// hashes, so version 1 hashes are not portable across that divergence.
func hash1(plaintext string) string {
	raw := []byte(plaintext)

	b85 := make([]byte, ascii85.MaxEncodedLen(len(raw)))
	b85 = b85[:ascii85.Encode(b85, raw)]

	salts := [4]string{
		strings.ToUpper(hex.EncodeToString(raw)),
		base32.StdEncoding.EncodeToString(raw),
		base64.StdEncoding.EncodeToString(raw),
		string(b85),
	}

	data := plaintext
	for i := 0; i < stretchCount; i++ {
		salt := salts[i%4]
		sum := sha512.Sum512([]byte(data + salt + data + salt + data + salt))
		data = hex.EncodeToString(sum[:])
	}
	return data
}
