package keys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// KeyStore is a simple local-first seed store used by the CLI.
//
// Layout: <dir>/<name>/root.key holds a hex seed; derived child seeds live
// under <dir>/<name>/children/<child>.key. Files are created 0600.
type KeyStore struct {
	Directory string
}

func GetDefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".skydb", "keys"), nil
}

func CreateKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = GetDefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

// CheckKeyName restricts names to filesystem-safe characters.
func CheckKeyName(name string) error {
	if name == "" {
		return errors.New("key name cannot be empty")
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in key name", char)
	}
	return nil
}

func (ks *KeyStore) rootKeyFilePath(name string) string {
	return filepath.Join(ks.Directory, name, "root.key")
}

func (ks *KeyStore) childKeyFilePath(name, child string) string {
	return filepath.Join(ks.Directory, name, "children", child+".key")
}

func (ks *KeyStore) saveSeedToFile(filePath string, seed []byte, overwrite bool) error {
	if len(seed) != SeedSize {
		return fmt.Errorf("expected seed length of %d bytes", SeedSize)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filePath, flags, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := fmt.Fprintf(file, "%x\n", seed); err != nil {
		return err
	}
	return file.Close()
}

func (ks *KeyStore) loadSeedFromFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseSeedHex(strings.TrimSpace(string(data)))
}

// InitializeRootKey stores seed under name and returns the wire-form public
// key and the file path.
func (ks *KeyStore) InitializeRootKey(name string, seed []byte, overwrite bool) (publicKey string, filePath string, err error) {
	if err := CheckKeyName(name); err != nil {
		return "", "", err
	}
	filePath = ks.rootKeyFilePath(name)
	if err := ks.saveSeedToFile(filePath, seed, overwrite); err != nil {
		return "", "", err
	}
	pub, _, err := KeyPairFromSeed(seed)
	if err != nil {
		return "", "", err
	}
	return PrefixedPublicKey(pub), filePath, nil
}

// DeriveChildKey derives and stores a named child seed of an existing root.
func (ks *KeyStore) DeriveChildKey(from, child string, overwrite bool) (publicKey string, filePath string, err error) {
	if err := CheckKeyName(from); err != nil {
		return "", "", err
	}
	if err := CheckKeyName(child); err != nil {
		return "", "", err
	}
	rootSeed, err := ks.loadSeedFromFile(ks.rootKeyFilePath(from))
	if err != nil {
		return "", "", err
	}
	childSeed, err := DeriveChildSeed(rootSeed, child)
	if err != nil {
		return "", "", err
	}
	filePath = ks.childKeyFilePath(from, child)
	if err := ks.saveSeedToFile(filePath, childSeed, overwrite); err != nil {
		return "", "", err
	}
	pub, _, err := KeyPairFromSeed(childSeed)
	if err != nil {
		return "", "", err
	}
	return PrefixedPublicKey(pub), filePath, nil
}

// LoadSeed resolves a seed from, in order: an inline hex seed, an explicit
// key file, or a stored name (optionally a child).
func (ks *KeyStore) LoadSeed(seedHex, name, child, keyFile string) ([]byte, error) {
	if seedHex != "" {
		return ParseSeedHex(seedHex)
	}
	if keyFile != "" {
		return ks.loadSeedFromFile(keyFile)
	}
	if name != "" {
		if err := CheckKeyName(name); err != nil {
			return nil, err
		}
		if child == "" {
			return ks.loadSeedFromFile(ks.rootKeyFilePath(name))
		}
		if err := CheckKeyName(child); err != nil {
			return nil, err
		}
		return ks.loadSeedFromFile(ks.childKeyFilePath(name, child))
	}
	return nil, errors.New("no key provided")
}

type KeyEntry struct {
	Name     string
	Children []string
}

// ListKeys enumerates stored keys and their derived children.
func (ks *KeyStore) ListKeys() ([]KeyEntry, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var result []KeyEntry
	for _, name := range names {
		childDir := filepath.Join(ks.Directory, name, "children")
		childEntries, cerr := os.ReadDir(childDir)
		var children []string
		if cerr == nil {
			for _, ce := range childEntries {
				if ce.IsDir() {
					continue
				}
				if strings.HasSuffix(ce.Name(), ".key") {
					children = append(children, strings.TrimSuffix(ce.Name(), ".key"))
				}
			}
			sort.Strings(children)
		}
		result = append(result, KeyEntry{Name: name, Children: children})
	}
	return result, nil
}
