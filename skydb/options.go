package skydb

// Per-call options. Each operation takes an explicit struct: library
// defaults come from the Default*Options constructors, callers override
// fields, and unknown options are impossible by construction. Validation
// of option values happens before any network call.

// GetJSONOptions configures GetJSON.
type GetJSONOptions struct {
	// HashedDataKeyHex treats the data key as the hex form of an
	// already-hashed key.
	HashedDataKeyHex bool

	// CachedDataLink, when set, short-circuits the download if the entry
	// still points at this link. Purely an optimization hint; never a
	// correctness source.
	CachedDataLink string
}

// DefaultGetJSONOptions returns the library defaults for GetJSON.
func DefaultGetJSONOptions() GetJSONOptions { return GetJSONOptions{} }

// SetJSONOptions configures SetJSON and DeleteJSON.
type SetJSONOptions struct {
	HashedDataKeyHex bool
}

// DefaultSetJSONOptions returns the library defaults for SetJSON.
func DefaultSetJSONOptions() SetJSONOptions { return SetJSONOptions{} }

// GetEntryDataOptions configures GetEntryData.
type GetEntryDataOptions struct {
	HashedDataKeyHex bool
}

// DefaultGetEntryDataOptions returns the library defaults for GetEntryData.
func DefaultGetEntryDataOptions() GetEntryDataOptions { return GetEntryDataOptions{} }

// SetEntryDataOptions configures SetEntryData and DeleteEntryData.
type SetEntryDataOptions struct {
	HashedDataKeyHex bool

	// AllowDeletionEntryData permits writing the deletion sentinel as
	// literal entry data. Without it, a sentinel payload is rejected so a
	// caller cannot delete a key by accident.
	AllowDeletionEntryData bool
}

// DefaultSetEntryDataOptions returns the library defaults for SetEntryData.
func DefaultSetEntryDataOptions() SetEntryDataOptions { return SetEntryDataOptions{} }

// GetRawBytesOptions configures GetRawBytes.
type GetRawBytesOptions struct {
	HashedDataKeyHex bool
	CachedDataLink   string
}

// DefaultGetRawBytesOptions returns the library defaults for GetRawBytes.
func DefaultGetRawBytesOptions() GetRawBytesOptions { return GetRawBytesOptions{} }
