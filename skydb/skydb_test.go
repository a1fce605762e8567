package skydb

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	"github.com/skynetkit/skydb/keys"
	"github.com/skynetkit/skydb/portal"
	"github.com/skynetkit/skydb/portal/testkit"
	"github.com/skynetkit/skydb/registry"
	"github.com/skynetkit/skydb/skylink"
)

func newTestClient(t *testing.T) (*Client, *portal.Client) {
	t.Helper()
	pc := testkit.NewClient(t, testkit.New())
	return New(pc), pc
}

func newTestKeyPair(t *testing.T) (keys.PublicKey, keys.PrivateKey) {
	t.Helper()
	pub, priv, err := keys.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	return pub, priv
}

func TestSetGetJSONRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	pub, priv := newTestKeyPair(t)
	const dataKey = "profile"

	want := map[string]interface{}{"name": "bob", "count": float64(1)}
	setRes, err := client.SetJSON(context.Background(), priv, dataKey, want, SetJSONOptions{})
	if err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if setRes.DataLink == nil {
		t.Fatalf("SetJSON returned no data link")
	}

	getRes, err := client.GetJSON(context.Background(), pub, dataKey, GetJSONOptions{})
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if getRes.Data == nil || getRes.DataLink == nil {
		t.Fatalf("GetJSON: unexpected not-found: %+v", getRes)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(getRes.Data, &got); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if got["name"] != want["name"] || got["count"] != want["count"] {
		t.Fatalf("round trip mismatch: got %v want %v", got, want)
	}
	// The envelope must be unwrapped transparently.
	if _, ok := got["_data"]; ok {
		t.Fatalf("envelope leaked into result: %v", got)
	}
	if *getRes.DataLink != *setRes.DataLink {
		t.Fatalf("data link mismatch: %s vs %s", getRes.DataLink, setRes.DataLink)
	}
}

func TestGetJSONNotFound(t *testing.T) {
	client, _ := newTestClient(t)
	pub, _ := newTestKeyPair(t)

	res, err := client.GetJSON(context.Background(), pub, "never-written", GetJSONOptions{})
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if res.Data != nil || res.DataLink != nil {
		t.Fatalf("expected not-found, got %+v", res)
	}
}

func TestGetJSONLegacyPayload(t *testing.T) {
	client, pc := newTestClient(t)
	pub, priv := newTestKeyPair(t)
	const dataKey = "legacy"

	// Content uploaded without the envelope, as pre-envelope writers did.
	legacy := []byte(`{"plain":"object"}`)
	link, err := pc.UploadBytes(context.Background(), legacy, "legacy.json")
	if err != nil {
		t.Fatalf("UploadBytes: %v", err)
	}
	entry := &registry.Entry{DataKey: dataKey, Data: link.Bytes(), Revision: 0}
	if err := client.Registry().SetEntry(context.Background(), priv, entry, registry.SetEntryOptions{}); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}

	res, err := client.GetJSON(context.Background(), pub, dataKey, GetJSONOptions{})
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if !bytes.Equal(res.Data, legacy) {
		t.Fatalf("legacy payload mangled: %s", res.Data)
	}
}

func TestGetJSONLegacyTextDataLink(t *testing.T) {
	client, pc := newTestClient(t)
	pub, priv := newTestKeyPair(t)
	const dataKey = "legacy-text"

	payload := []byte(`{"_data":{"a":1},"_v":2}`)
	link, err := pc.UploadBytes(context.Background(), payload, "a.json")
	if err != nil {
		t.Fatalf("UploadBytes: %v", err)
	}
	// Entry data in the legacy variable-length text form.
	entry := &registry.Entry{DataKey: dataKey, Data: []byte(link.String()), Revision: 0}
	if err := client.Registry().SetEntry(context.Background(), priv, entry, registry.SetEntryOptions{}); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}

	res, err := client.GetJSON(context.Background(), pub, dataKey, GetJSONOptions{})
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if string(res.Data) != `{"a":1}` {
		t.Fatalf("legacy text data link: got %s", res.Data)
	}
}

func TestGetJSONCachedDataLink(t *testing.T) {
	client, _ := newTestClient(t)
	pub, priv := newTestKeyPair(t)
	const dataKey = "cached"

	setRes, err := client.SetJSON(context.Background(), priv, dataKey, map[string]int{"n": 1}, SetJSONOptions{})
	if err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	res, err := client.GetJSON(context.Background(), pub, dataKey, GetJSONOptions{
		CachedDataLink: setRes.DataLink.String(),
	})
	if err != nil {
		t.Fatalf("GetJSON with cached link: %v", err)
	}
	if res.Data != nil {
		t.Fatalf("cache hit should not download content")
	}
	if res.DataLink == nil || *res.DataLink != *setRes.DataLink {
		t.Fatalf("cache hit should return the resolved link")
	}

	// A stale hint is ignored and the content downloaded.
	if _, err := client.SetJSON(context.Background(), priv, dataKey, map[string]int{"n": 2}, SetJSONOptions{}); err != nil {
		t.Fatalf("SetJSON(2): %v", err)
	}
	res, err = client.GetJSON(context.Background(), pub, dataKey, GetJSONOptions{
		CachedDataLink: setRes.DataLink.String(),
	})
	if err != nil {
		t.Fatalf("GetJSON with stale cached link: %v", err)
	}
	if res.Data == nil {
		t.Fatalf("stale hint must not suppress the download")
	}

	if _, err := client.GetJSON(context.Background(), pub, dataKey, GetJSONOptions{
		CachedDataLink: "not a skylink",
	}); !registry.IsKind(err, registry.KindValidation) {
		t.Fatalf("bad cached link: got %v, want KindValidation", err)
	}
}

func TestGetJSONRejectsNonObjectContent(t *testing.T) {
	client, pc := newTestClient(t)
	pub, priv := newTestKeyPair(t)
	const dataKey = "not-json"

	link, err := pc.UploadBytes(context.Background(), []byte("plain text, not json"), "x.txt")
	if err != nil {
		t.Fatalf("UploadBytes: %v", err)
	}
	entry := &registry.Entry{DataKey: dataKey, Data: link.Bytes(), Revision: 0}
	if err := client.Registry().SetEntry(context.Background(), priv, entry, registry.SetEntryOptions{}); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}

	_, err = client.GetJSON(context.Background(), pub, dataKey, GetJSONOptions{})
	if !registry.IsKind(err, registry.KindDecode) || registry.RuleID(err) != "SKY-DEC-510" {
		t.Fatalf("non-JSON content: got %v rule %q", err, registry.RuleID(err))
	}
}

func TestGetJSONMalformedEntryData(t *testing.T) {
	client, _ := newTestClient(t)
	pub, priv := newTestKeyPair(t)
	const dataKey = "malformed"

	entry := &registry.Entry{DataKey: dataKey, Data: []byte("short"), Revision: 0}
	if err := client.Registry().SetEntry(context.Background(), priv, entry, registry.SetEntryOptions{}); err != nil {
		t.Fatalf("SetEntry: %v", err)
	}

	_, err := client.GetJSON(context.Background(), pub, dataKey, GetJSONOptions{})
	if !registry.IsKind(err, registry.KindDecode) || registry.RuleID(err) != "SKY-DEC-511" {
		t.Fatalf("malformed entry data: got %v rule %q", err, registry.RuleID(err))
	}
}

func TestDeleteJSONAndRevisionContinuity(t *testing.T) {
	client, _ := newTestClient(t)
	pub, priv := newTestKeyPair(t)
	const dataKey = "deletable"

	if _, err := client.SetJSON(context.Background(), priv, dataKey, map[string]int{"v": 1}, SetJSONOptions{}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if err := client.DeleteJSON(context.Background(), priv, dataKey, SetJSONOptions{}); err != nil {
		t.Fatalf("DeleteJSON: %v", err)
	}

	res, err := client.GetJSON(context.Background(), pub, dataKey, GetJSONOptions{})
	if err != nil {
		t.Fatalf("GetJSON after delete: %v", err)
	}
	if res.Data != nil || res.DataLink != nil {
		t.Fatalf("deleted key should read as not-found: %+v", res)
	}

	// The revision counter survives deletion: the next write lands at 2.
	if _, err := client.SetJSON(context.Background(), priv, dataKey, map[string]int{"v": 2}, SetJSONOptions{}); err != nil {
		t.Fatalf("SetJSON after delete: %v", err)
	}
	signed, err := client.Registry().GetEntry(context.Background(), pub, dataKey, registry.GetEntryOptions{})
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if signed.Entry == nil || signed.Entry.Revision != 2 {
		t.Fatalf("revision after delete+set: %+v", signed.Entry)
	}
}

func TestSetJSONRejectsNonObject(t *testing.T) {
	client, _ := newTestClient(t)
	_, priv := newTestKeyPair(t)

	_, err := client.SetJSON(context.Background(), priv, "bad", []int{1, 2, 3}, SetJSONOptions{})
	if !registry.IsKind(err, registry.KindValidation) || registry.RuleID(err) != "SKY-VAL-021" {
		t.Fatalf("non-object data: got %v rule %q", err, registry.RuleID(err))
	}
}

// failingTransport fails every call, to prove validation happens before
// any network activity.
type failingTransport struct{}

var errTransportTouched = errors.New("transport must not be reached")

func (failingTransport) ExecuteRequest(context.Context, portal.RequestOptions) (*portal.Response, error) {
	return nil, errTransportTouched
}
func (failingTransport) UploadBytes(context.Context, []byte, string) (skylink.Skylink, error) {
	return skylink.Skylink{}, errTransportTouched
}
func (failingTransport) DownloadSkylink(context.Context, skylink.Skylink) (*portal.DownloadResult, error) {
	return nil, errTransportTouched
}

func TestSetEntryDataValidatesBeforeNetwork(t *testing.T) {
	client := New(failingTransport{})
	_, priv := newTestKeyPair(t)

	_, err := client.SetEntryData(context.Background(), priv, "k", make([]byte, MaxEntryDataSize+1), SetEntryDataOptions{})
	if !registry.IsKind(err, registry.KindValidation) || registry.RuleID(err) != "SKY-VAL-031" {
		t.Fatalf("oversized entry data: got %v rule %q", err, registry.RuleID(err))
	}
	if errors.Is(err, errTransportTouched) {
		t.Fatalf("validation reached the network")
	}

	_, err = client.SetEntryData(context.Background(), priv, "k", registry.DeletionEntryData, SetEntryDataOptions{})
	if !registry.IsKind(err, registry.KindValidation) || registry.RuleID(err) != "SKY-VAL-032" {
		t.Fatalf("sentinel without flag: got %v rule %q", err, registry.RuleID(err))
	}
}

func TestEntryDataRoundTripAndDelete(t *testing.T) {
	client, _ := newTestClient(t)
	pub, priv := newTestKeyPair(t)
	const dataKey = "entry-data"

	payload := []byte("at most seventy bytes of payload")
	if _, err := client.SetEntryData(context.Background(), priv, dataKey, payload, SetEntryDataOptions{}); err != nil {
		t.Fatalf("SetEntryData: %v", err)
	}

	res, err := client.GetEntryData(context.Background(), pub, dataKey, GetEntryDataOptions{})
	if err != nil {
		t.Fatalf("GetEntryData: %v", err)
	}
	if !bytes.Equal(res.Data, payload) {
		t.Fatalf("entry data mismatch: %q", res.Data)
	}

	// Reads are idempotent and do not bump the revision.
	signedBefore, err := client.Registry().GetEntry(context.Background(), pub, dataKey, registry.GetEntryOptions{})
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	res2, err := client.GetEntryData(context.Background(), pub, dataKey, GetEntryDataOptions{})
	if err != nil {
		t.Fatalf("GetEntryData(2): %v", err)
	}
	if !bytes.Equal(res.Data, res2.Data) {
		t.Fatalf("repeated reads disagree")
	}
	signedAfter, err := client.Registry().GetEntry(context.Background(), pub, dataKey, registry.GetEntryOptions{})
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if signedBefore.Entry.Revision != signedAfter.Entry.Revision {
		t.Fatalf("reads changed the revision")
	}

	if err := client.DeleteEntryData(context.Background(), priv, dataKey, SetEntryDataOptions{}); err != nil {
		t.Fatalf("DeleteEntryData: %v", err)
	}
	res, err = client.GetEntryData(context.Background(), pub, dataKey, GetEntryDataOptions{})
	if err != nil {
		t.Fatalf("GetEntryData after delete: %v", err)
	}
	if res.Data != nil {
		t.Fatalf("deleted entry data should read as nil, got %q", res.Data)
	}
}

func TestSetEntryDataExactBoundary(t *testing.T) {
	client, _ := newTestClient(t)
	pub, priv := newTestKeyPair(t)

	exact := bytes.Repeat([]byte{0x55}, MaxEntryDataSize)
	if _, err := client.SetEntryData(context.Background(), priv, "boundary", exact, SetEntryDataOptions{}); err != nil {
		t.Fatalf("SetEntryData(70 bytes): %v", err)
	}
	res, err := client.GetEntryData(context.Background(), pub, "boundary", GetEntryDataOptions{})
	if err != nil {
		t.Fatalf("GetEntryData: %v", err)
	}
	if !bytes.Equal(res.Data, exact) {
		t.Fatalf("boundary payload mismatch")
	}
}

func TestWriteRaceSecondWriterRejected(t *testing.T) {
	client, _ := newTestClient(t)
	pub, priv := newTestKeyPair(t)
	const dataKey = "raced"
	reg := client.Registry()

	base := &registry.Entry{DataKey: dataKey, Data: []byte("base"), Revision: 5}
	if err := reg.SetEntry(context.Background(), priv, base, registry.SetEntryOptions{}); err != nil {
		t.Fatalf("SetEntry(base): %v", err)
	}

	// Two writers read revision 5 and both compute 6.
	signedA, err := reg.GetEntry(context.Background(), pub, dataKey, registry.GetEntryOptions{})
	if err != nil {
		t.Fatalf("GetEntry(A): %v", err)
	}
	signedB, err := reg.GetEntry(context.Background(), pub, dataKey, registry.GetEntryOptions{})
	if err != nil {
		t.Fatalf("GetEntry(B): %v", err)
	}
	revA, err := registry.NextRevision(signedA.Entry)
	if err != nil {
		t.Fatalf("NextRevision(A): %v", err)
	}
	revB, err := registry.NextRevision(signedB.Entry)
	if err != nil {
		t.Fatalf("NextRevision(B): %v", err)
	}
	if revA != 6 || revB != 6 {
		t.Fatalf("both writers should compute revision 6: %d, %d", revA, revB)
	}

	winner := &registry.Entry{DataKey: dataKey, Data: []byte("winner"), Revision: revA}
	if err := reg.SetEntry(context.Background(), priv, winner, registry.SetEntryOptions{}); err != nil {
		t.Fatalf("SetEntry(winner): %v", err)
	}
	loser := &registry.Entry{DataKey: dataKey, Data: []byte("loser"), Revision: revB}
	err = reg.SetEntry(context.Background(), priv, loser, registry.SetEntryOptions{})
	if !registry.IsKind(err, registry.KindPortal) {
		t.Fatalf("stale writer: got %v, want KindPortal", err)
	}
}

func TestRevisionOverflowIsTerminal(t *testing.T) {
	client, _ := newTestClient(t)
	_, priv := newTestKeyPair(t)
	const dataKey = "exhausted"

	last := &registry.Entry{DataKey: dataKey, Data: []byte("final"), Revision: registry.MaxRevision}
	if err := client.Registry().SetEntry(context.Background(), priv, last, registry.SetEntryOptions{}); err != nil {
		t.Fatalf("SetEntry(max): %v", err)
	}

	_, err := client.SetJSON(context.Background(), priv, dataKey, map[string]int{"v": 1}, SetJSONOptions{})
	if !registry.IsKind(err, registry.KindRevision) {
		t.Fatalf("overflow: got %v, want KindRevision", err)
	}
}

func TestGetRawBytes(t *testing.T) {
	client, _ := newTestClient(t)
	pub, priv := newTestKeyPair(t)
	const dataKey = "raw"

	if _, err := client.SetJSON(context.Background(), priv, dataKey, map[string]int{"n": 7}, SetJSONOptions{}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	res, err := client.GetRawBytes(context.Background(), pub, dataKey, GetRawBytesOptions{})
	if err != nil {
		t.Fatalf("GetRawBytes: %v", err)
	}
	if res.DataLink == nil || res.Data == nil {
		t.Fatalf("unexpected not-found: %+v", res)
	}
	// Raw bytes are returned unmodified, envelope included.
	if !bytes.Contains(res.Data, []byte("_data")) {
		t.Fatalf("raw bytes should carry the envelope: %s", res.Data)
	}

	hit, err := client.GetRawBytes(context.Background(), pub, dataKey, GetRawBytesOptions{
		CachedDataLink: res.DataLink.String(),
	})
	if err != nil {
		t.Fatalf("GetRawBytes cached: %v", err)
	}
	if hit.Data != nil || hit.DataLink == nil {
		t.Fatalf("cache hit should skip the download: %+v", hit)
	}
}

func TestHashedDataKeyHexEquivalence(t *testing.T) {
	client, _ := newTestClient(t)
	pub, priv := newTestKeyPair(t)
	const dataKey = "hashed-equiv"

	if _, err := client.SetJSON(context.Background(), priv, dataKey, map[string]int{"x": 9}, SetJSONOptions{}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	hdk := registry.HashDataKey(dataKey)
	res, err := client.GetJSON(context.Background(), pub, hex.EncodeToString(hdk[:]), GetJSONOptions{HashedDataKeyHex: true})
	if err != nil {
		t.Fatalf("GetJSON hashed hex: %v", err)
	}
	if string(res.Data) != `{"x":9}` {
		t.Fatalf("hashed-hex read mismatch: %s", res.Data)
	}
}
