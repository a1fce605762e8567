// Package testkit provides an in-memory portal that speaks the real portal
// HTTP API, for tests and local development. It stores uploads and registry
// entries in memory, enforces monotonic revisions, and serves resolver
// downloads with proof headers the way a live portal does.
package testkit

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/blake2b"

	"github.com/skynetkit/skydb/keys"
	"github.com/skynetkit/skydb/portal"
	"github.com/skynetkit/skydb/registry"
	"github.com/skynetkit/skydb/skylink"
)

// maxResolveDepth bounds resolver chain walks, matching portal behavior of
// refusing unbounded indirection.
const maxResolveDepth = 8

type storedEntry struct {
	pub        keys.PublicKey
	dataKeyHex string // hex of the hashed data key
	data       []byte
	revision   uint64
	signature  []byte
}

// Portal is the in-memory portal. The zero value is not usable; construct
// with New.
type Portal struct {
	mu        sync.Mutex
	blobs     map[string][]byte       // skylink string -> content
	entries   map[string]*storedEntry // "<pubhex>/<datakeyhex>"
	byEntryID map[string]*storedEntry // hex entry ID

	// EnforceRevision makes registry writes reject revisions at or below
	// the stored one, the strict-portal behavior. Defaults to true.
	EnforceRevision bool

	router *mux.Router
}

// New returns an empty portal with revision enforcement on.
func New() *Portal {
	p := &Portal{
		blobs:           make(map[string][]byte),
		entries:         make(map[string]*storedEntry),
		byEntryID:       make(map[string]*storedEntry),
		EnforceRevision: true,
	}
	r := mux.NewRouter()
	r.HandleFunc("/skynet/skyfile", p.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/skynet/registry", p.handleRegistryRead).Methods(http.MethodGet)
	r.HandleFunc("/skynet/registry", p.handleRegistryWrite).Methods(http.MethodPost)
	r.HandleFunc("/{skylink:[a-zA-Z0-9_-]{46}}", p.handleDownload).Methods(http.MethodGet)
	p.router = r
	return p
}

// Handler returns the portal's HTTP handler, suitable for httptest.
func (p *Portal) Handler() http.Handler {
	return p.router
}

// UploadSkylink computes the skylink the portal would assign to data. The
// content digest stands in for the sector merkle root; it is stable and
// content-derived, which is all the client contract needs.
func UploadSkylink(data []byte) skylink.Skylink {
	return skylink.NewV1(blake2b.Sum256(data))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorReply struct {
	Message string `json:"message"`
}

func (p *Portal) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "missing file field"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "unreadable file field"})
		return
	}

	link := UploadSkylink(data)
	p.mu.Lock()
	p.blobs[link.String()] = data
	p.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"skylink": link.String()})
}

func (p *Portal) handleRegistryRead(w http.ResponseWriter, r *http.Request) {
	pub, err := keys.PublicKeyFromHex(r.URL.Query().Get("publickey"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "unable to parse publickey"})
		return
	}
	dataKeyHex := r.URL.Query().Get("datakey")

	p.mu.Lock()
	entry, ok := p.entries[entryKey(pub, dataKeyHex)]
	p.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorReply{Message: "registry entry not found within the time limit"})
		return
	}
	writeJSON(w, http.StatusOK, registry.GetEntryResponse{
		Data:      hex.EncodeToString(entry.data),
		Revision:  entry.revision,
		Signature: hex.EncodeToString(entry.signature),
	})
}

func (p *Portal) handleRegistryWrite(w http.ResponseWriter, r *http.Request) {
	var req registry.SetEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "unable to parse request body"})
		return
	}
	if req.PublicKey.Algorithm != keys.AlgorithmEd25519 || len(req.PublicKey.Key) != keys.PublicKeySize {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "unsupported public key"})
		return
	}
	pub := keys.PublicKey(req.PublicKey.Key)

	hashedDataKey, err := registry.ResolveDataKeyHash(req.DataKey, true)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "unable to parse datakey"})
		return
	}
	entry := &registry.Entry{DataKey: req.DataKey, Data: req.Data, Revision: req.Revision}
	if !entry.VerifySignature(pub, hashedDataKey, req.Signature) {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "invalid signature"})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	key := entryKey(pub, req.DataKey)
	if prior, ok := p.entries[key]; ok && p.EnforceRevision && req.Revision <= prior.revision {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "invalid revision number"})
		return
	}
	stored := &storedEntry{
		pub:        pub,
		dataKeyHex: req.DataKey,
		data:       append([]byte(nil), req.Data...),
		revision:   req.Revision,
		signature:  append([]byte(nil), req.Signature...),
	}
	p.entries[key] = stored
	entryID := registry.EntryID(pub, hashedDataKey)
	p.byEntryID[hex.EncodeToString(entryID[:])] = stored

	w.WriteHeader(http.StatusNoContent)
}

func (p *Portal) handleDownload(w http.ResponseWriter, r *http.Request) {
	link, err := skylink.Parse(mux.Vars(r)["skylink"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorReply{Message: "unable to parse skylink"})
		return
	}

	var proof []registry.ProofStep
	current := link
	for depth := 0; current.IsResolver(); depth++ {
		if depth >= maxResolveDepth {
			writeJSON(w, http.StatusBadRequest, errorReply{Message: "resolver chain too deep"})
			return
		}
		p.mu.Lock()
		entry, ok := p.byEntryID[hex.EncodeToString(current.MerkleRoot[:])]
		p.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, errorReply{Message: "registry entry not found"})
			return
		}
		next, err := skylink.FromBytes(entry.data)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorReply{Message: "registry entry does not hold a skylink"})
			return
		}
		proof = append(proof, registry.ProofStep{
			Data:     hex.EncodeToString(entry.data),
			Revision: entry.revision,
			DataKey:  entry.dataKeyHex,
			PublicKey: registry.ProofPublicKey{
				Algorithm: keys.AlgorithmEd25519,
				Key:       base64.StdEncoding.EncodeToString(entry.pub),
			},
			Signature: hex.EncodeToString(entry.signature),
			Type:      1,
		})
		current = next
	}

	p.mu.Lock()
	data, ok := p.blobs[current.String()]
	p.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorReply{Message: "skylink not found"})
		return
	}

	w.Header().Set(portal.SkylinkHeader, current.String())
	if len(proof) > 0 {
		raw, err := json.Marshal(proof)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorReply{Message: "unable to encode proof"})
			return
		}
		w.Header().Set(portal.ProofHeader, string(raw))
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func entryKey(pub keys.PublicKey, dataKeyHex string) string {
	return keys.PublicKeyHex(pub) + "/" + dataKeyHex
}
