package jwk

// EcCurve identifies an elliptic curve usable with EC keys.
type EcCurve string

// Supported EC curves.
const (
	P256       EcCurve = "P-256"
	Secp256k1  EcCurve = "secp256k1"
	BLS12381G2 EcCurve = "BLS12381G2"
)

// EdCurve identifies an Edwards curve usable with OKP keys.
type EdCurve string

// Supported Edwards curves.
const (
	Ed25519 EdCurve = "Ed25519"
)

// KeyType identifies the JWK kty parameter value.
type KeyType string

// Supported key types.
const (
	KeyTypeEC  KeyType = "EC"
	KeyTypeOKP KeyType = "OKP"
	KeyTypeRSA KeyType = "RSA"
	KeyTypeOct KeyType = "oct"
	// KeyTypeAKP is the algorithm key pair type used by post-quantum
	// ML-DSA keys (draft-ietf-cose-dilithium).
	KeyTypeAKP KeyType = "AKP"
)
