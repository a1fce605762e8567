package registry

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/skynetkit/skydb/keys"
	"github.com/skynetkit/skydb/skylink"
)

// proofTypeEd25519 is the only registry entry type portals serve in proofs.
const proofTypeEd25519 = 1

// ProofPublicKey identifies the signer of one proof step.
type ProofPublicKey struct {
	Algorithm string `json:"algorithm"`
	Key       string `json:"key"` // base64
}

// ProofStep is one element of the Skynet-Proof header: a signed registry
// entry binding a resolver skylink to the next skylink in the chain.
type ProofStep struct {
	Data      string         `json:"data"`    // hex, raw bytes of the next skylink
	Revision  uint64         `json:"revision"`
	DataKey   string         `json:"datakey"` // hex, hashed data key
	PublicKey ProofPublicKey `json:"publickey"`
	Signature string         `json:"signature"` // hex
	Type      int            `json:"type"`
}

// ParseProof decodes a Skynet-Proof header payload. An empty payload
// yields a nil proof.
func ParseProof(raw string) ([]ProofStep, error) {
	if raw == "" {
		return nil, nil
	}
	var steps []ProofStep
	if err := json.Unmarshal([]byte(raw), &steps); err != nil {
		return nil, WrapError(KindDecode, "SKY-DEC-501", "malformed registry proof header", err)
	}
	return steps, nil
}

// ValidateProof checks that proof justifies resolving input to
// finalDataLink.
//
// For a direct (version 1) input link the proof must be empty and the final
// link identical. For a resolver (version 2) input link the proof chain
// must walk, step by step, from input to finalDataLink: each step's public
// key and data key must derive the link being resolved, the step's
// signature must verify, and the step's data names the next link.
//
// This guards against a compromised or buggy portal substituting an
// unrelated data link for a resolver query.
func ValidateProof(input, finalDataLink skylink.Skylink, proof []ProofStep) error {
	if !input.IsResolver() {
		if finalDataLink != input {
			return NewError(KindProof, "SKY-PROOF-101", fmt.Sprintf(
				"direct skylink %s resolved to a different link %s", input, finalDataLink))
		}
		if len(proof) != 0 {
			return NewError(KindProof, "SKY-PROOF-102", fmt.Sprintf(
				"unexpected %d-step proof for direct skylink %s", len(proof), input))
		}
		return nil
	}

	if finalDataLink == input {
		return NewError(KindProof, "SKY-PROOF-103", fmt.Sprintf(
			"resolver skylink %s cannot resolve to itself", input))
	}
	if len(proof) == 0 {
		return NewError(KindProof, "SKY-PROOF-104", fmt.Sprintf(
			"missing proof for resolver skylink %s", input))
	}

	current := input
	for i := range proof {
		next, err := validateProofStep(current, &proof[i])
		if err != nil {
			return err
		}
		current = next
	}
	if current != finalDataLink {
		return NewError(KindProof, "SKY-PROOF-115", fmt.Sprintf(
			"proof chain ends at %s, expected %s", current, finalDataLink))
	}
	return nil
}

// validateProofStep checks that step binds current to its successor and
// returns that successor.
func validateProofStep(current skylink.Skylink, step *ProofStep) (skylink.Skylink, error) {
	if !current.IsResolver() {
		return skylink.Skylink{}, NewError(KindProof, "SKY-PROOF-113", fmt.Sprintf(
			"proof step targets non-resolver skylink %s", current))
	}
	if step.Type != proofTypeEd25519 || step.PublicKey.Algorithm != keys.AlgorithmEd25519 {
		return skylink.Skylink{}, NewError(KindProof, "SKY-PROOF-111", fmt.Sprintf(
			"unsupported proof step type %d algorithm %q", step.Type, step.PublicKey.Algorithm))
	}

	pubBytes, err := base64.StdEncoding.DecodeString(step.PublicKey.Key)
	if err != nil || len(pubBytes) != keys.PublicKeySize {
		return skylink.Skylink{}, WrapError(KindProof, "SKY-PROOF-112",
			"proof step carries a malformed public key", err)
	}
	pub := keys.PublicKey(pubBytes)

	hashedDataKey, err := ResolveDataKeyHash(step.DataKey, true)
	if err != nil {
		return skylink.Skylink{}, WrapError(KindProof, "SKY-PROOF-112",
			"proof step carries a malformed data key", err)
	}

	// The step must be the entry the current resolver link names.
	if EntryID(pub, hashedDataKey) != current.MerkleRoot {
		return skylink.Skylink{}, NewError(KindProof, "SKY-PROOF-113", fmt.Sprintf(
			"proof step does not derive resolver skylink %s", current))
	}

	data, err := hex.DecodeString(step.Data)
	if err != nil {
		return skylink.Skylink{}, WrapError(KindProof, "SKY-PROOF-112",
			"proof step carries malformed entry data", err)
	}
	next, err := skylink.FromBytes(data)
	if err != nil {
		return skylink.Skylink{}, WrapError(KindProof, "SKY-PROOF-112",
			"proof step entry data is not a raw skylink", err)
	}

	sig, err := hex.DecodeString(step.Signature)
	if err != nil {
		return skylink.Skylink{}, WrapError(KindProof, "SKY-PROOF-112",
			"proof step carries a malformed signature", err)
	}
	entry := &Entry{DataKey: step.DataKey, Data: data, Revision: step.Revision}
	if !entry.VerifySignature(pub, hashedDataKey, sig) {
		return skylink.Skylink{}, NewError(KindProof, "SKY-PROOF-114", fmt.Sprintf(
			"proof step signature for resolver skylink %s did not verify", current))
	}
	return next, nil
}
