package address

import (
	"crypto/rand"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// Version represents the version of an Address. Different versions are associated to different signature schemes.
type Version = byte

// VersionED25519 represents the address version that uses ED25519 signatures.
const VersionED25519 = byte(1)

// Length contains the length of an address (version byte + blake2b digest of the public key).
const Length = 1 + 32

// Address represents the recipient of funds in the ledger. It holds the hashed version of the verification key that
// is entitled to spend the funds.
type Address [Length]byte

// FromED25519PubKey creates an Address from an ed25519 public key.
func FromED25519PubKey(key ed25519.PublicKey) (address Address) {
	digest := blake2b.Sum256(key[:])

	address[0] = VersionED25519
	copy(address[1:], digest[:])

	return
}

// FromBase58 creates an Address from a base58 encoded string.
func FromBase58(base58String string) (address Address, err error) {
	decodedBytes, err := base58.Decode(base58String)
	if err != nil {
		return address, errors.Errorf("failed to decode base58 encoded Address: %w", err)
	}
	if len(decodedBytes) != Length {
		return address, errors.Errorf("base58 encoded string does not match the length of an Address")
	}
	copy(address[:], decodedBytes)

	return
}

// FromBytes unmarshals an Address from a sequence of bytes.
func FromBytes(bytes []byte) (result Address, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(bytes)
	if result, err = FromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Address from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// FromMarshalUtil unmarshals an Address using a MarshalUtil (for easier unmarshaling).
func FromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (result Address, err error) {
	addressBytes, err := marshalUtil.ReadBytes(Length)
	if err != nil {
		return result, errors.Errorf("failed to parse Address bytes: %w", err)
	}
	copy(result[:], addressBytes)

	return
}

// Random creates a random Address, which can for example be used in unit tests.
func Random() (address Address) {
	if _, err := rand.Read(address[:]); err != nil {
		panic(err)
	}
	address[0] = VersionED25519

	return
}

// Version returns the version of the Address, which corresponds to the signature scheme that is used.
func (address Address) Version() Version {
	return address[0]
}

// Digest returns the digest part of the Address (i.e. the hashed version of the ed25519 public key).
func (address Address) Digest() []byte {
	return address[1:]
}

// Bytes returns a marshaled version of the Address.
func (address Address) Bytes() []byte {
	return address[:]
}

// Base58 returns a base58 encoded version of the Address.
func (address Address) Base58() string {
	return base58.Encode(address.Bytes())
}

// String returns a human-readable version of the Address.
func (address Address) String() string {
	return "Address(" + address.Base58() + ")"
}
