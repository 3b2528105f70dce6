package builtins

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"

	"slumber/types"
	"slumber/vm"
)

// ============================================================================
// HASHING
// ============================================================================

// digests maps algorithm names, upper-cased and without dashes, to their
// constructors
var digests = map[string]func() hash.Hash{
	"MD5":       md5.New,
	"SHA1":      sha1.New,
	"SHA256":    sha256.New,
	"SHA512":    sha512.New,
	"SHA3256":   sha3.New256,
	"SHA3512":   sha3.New512,
	"RIPEMD160": ripemd160.New,
}

// builtinDigest hashes a string and returns the hex digest. The algorithm
// defaults to MD5; "SHA-256" and "sha256" name the same one.
// digest(string, [algorithm]) -> string
func builtinDigest(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	data := popString(args)
	algo := "MD5"
	if !args.IsEmpty() {
		algo = args.Pop().String()
	}
	newHash, ok := digests[strings.ReplaceAll(strings.ToUpper(algo), "-", "")]
	if !ok {
		return nil, vm.Errorf(name, "unknown algorithm %q", algo)
	}
	h := newHash()
	h.Write([]byte(data))
	return types.NewString(hex.EncodeToString(h.Sum(nil))), nil
}
