package signaturescheme

import (
	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/mr-tron/base58"

	"github.com/spendlabs/txcore/packages/address"
)

// region Signature ////////////////////////////////////////////////////////////////////////////////////////////////////

// Signature is an ed25519 signature, bundled with the public key that produced it. Carrying the public key allows a
// verifier to check the signature against an Address (which only holds a digest of the key).
type Signature struct {
	publicKey ed25519.PublicKey
	signature ed25519.Signature
}

// NewSignature creates a Signature from the given details.
func NewSignature(publicKey ed25519.PublicKey, signature ed25519.Signature) *Signature {
	return &Signature{
		publicKey: publicKey,
		signature: signature,
	}
}

// Sign creates a valid Signature for the given data with the given key pair.
func Sign(keyPair *ed25519.KeyPair, data []byte) *Signature {
	return NewSignature(keyPair.PublicKey, keyPair.PrivateKey.Sign(data))
}

// FromBytes unmarshals a Signature from a sequence of bytes.
func FromBytes(bytes []byte) (result *Signature, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(bytes)
	if result, err = FromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Signature from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// FromMarshalUtil unmarshals a Signature using a MarshalUtil (for easier unmarshaling).
func FromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (result *Signature, err error) {
	result = &Signature{}
	if result.publicKey, err = ed25519.ParsePublicKey(marshalUtil); err != nil {
		return nil, errors.Errorf("failed to parse public key: %w", err)
	}
	if result.signature, err = ed25519.ParseSignature(marshalUtil); err != nil {
		return nil, errors.Errorf("failed to parse signature: %w", err)
	}

	return
}

// PublicKey returns the public key that produced the Signature.
func (s *Signature) PublicKey() ed25519.PublicKey {
	return s.publicKey
}

// Address returns the Address that corresponds to the public key of the Signature.
func (s *Signature) Address() address.Address {
	return address.FromED25519PubKey(s.publicKey)
}

// IsValid returns true if the Signature is a valid signature of the given data.
func (s *Signature) IsValid(data []byte) bool {
	return s.publicKey.VerifySignature(data, s.signature)
}

// Bytes returns a marshaled version of the Signature.
func (s *Signature) Bytes() []byte {
	return marshalutil.New(ed25519.PublicKeySize + ed25519.SignatureSize).
		WriteBytes(s.publicKey.Bytes()).
		WriteBytes(s.signature.Bytes()).
		Bytes()
}

// String returns a human-readable version of the Signature.
func (s *Signature) String() string {
	return "Signature(" + base58.Encode(s.signature.Bytes()) + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
