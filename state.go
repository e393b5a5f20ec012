package walletsdk

import (
	"encoding/json"
	"sync"
)

// Storage slice keys. Each slice is serialized independently so unrelated
// writers do not clobber each other beyond last-write-wins on the same key.
const (
	storageKeyConfig            = "config"
	storageKeyAccount           = "account"
	storageKeySubAccounts       = "subAccounts"
	storageKeySubAccountsConfig = "subAccountsConfig"
	storageKeySpendPermissions  = "spendPermissions"
	storageKeyCorrelationIDs    = "correlationIds"
)

// SessionState is the shared persisted configuration/account/sub-account/
// spend-permission store, passed by reference into the Provider, Signer and
// the sub-account/payment modules instead of living as an ambient global.
//
// It is a last-write-wins cache: there is no compare-and-swap, and callers
// are expected to re-read before acting on cached sub-account or permission
// data. That race is accepted given the primarily single-tab execution model.
type SessionState struct {
	mu      sync.Mutex
	storage Storage
}

// NewSessionState creates a SessionState over the given storage backend.
func NewSessionState(storage Storage) *SessionState {
	return &SessionState{storage: storage}
}

func (s *SessionState) get(key string, out interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.storage.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (s *SessionState) set(key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage.Set(key, raw)
}

// Account returns the cached global-account slice, or nil if absent.
func (s *SessionState) Account() *AccountInfo {
	var info AccountInfo
	if !s.get(storageKeyAccount, &info) {
		return nil
	}
	return &info
}

// SetAccount persists the global-account slice.
func (s *SessionState) SetAccount(info *AccountInfo) {
	s.set(storageKeyAccount, info)
}

// SubAccounts returns the cached sub-accounts, keyed by owning global account.
func (s *SessionState) SubAccounts() map[string]SubAccount {
	out := make(map[string]SubAccount)
	s.get(storageKeySubAccounts, &out)
	return out
}

// SubAccount returns the cached sub-account for the given global account.
func (s *SessionState) SubAccount(globalAccount string) (SubAccount, bool) {
	accounts := s.SubAccounts()
	sub, ok := accounts[normalizeAddressKey(globalAccount)]
	return sub, ok
}

// SetSubAccount caches a sub-account under its owning global account.
func (s *SessionState) SetSubAccount(globalAccount string, sub SubAccount) {
	accounts := s.SubAccounts()
	accounts[normalizeAddressKey(globalAccount)] = sub
	s.set(storageKeySubAccounts, accounts)
}

// SubAccountsConfig returns the integrator's sub-account preferences, or nil.
func (s *SessionState) SubAccountsConfig() *SubAccountsConfig {
	var cfg SubAccountsConfig
	if !s.get(storageKeySubAccountsConfig, &cfg) {
		return nil
	}
	return &cfg
}

// SetSubAccountsConfig persists the sub-account preferences.
func (s *SessionState) SetSubAccountsConfig(cfg *SubAccountsConfig) {
	s.set(storageKeySubAccountsConfig, cfg)
}

// SpendPermissions returns all cached spend permissions.
func (s *SessionState) SpendPermissions() []SpendPermission {
	var perms []SpendPermission
	s.get(storageKeySpendPermissions, &perms)
	return perms
}

// AddSpendPermissions appends permissions to the cache, dropping entries
// whose permission hash is already present.
func (s *SessionState) AddSpendPermissions(perms []SpendPermission) {
	existing := s.SpendPermissions()
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.PermissionHash] = true
	}
	for _, p := range perms {
		if !seen[p.PermissionHash] {
			existing = append(existing, p)
			seen[p.PermissionHash] = true
		}
	}
	s.set(storageKeySpendPermissions, existing)
}

// CorrelationIDs returns the in-flight telemetry correlation ids keyed by
// request method.
func (s *SessionState) CorrelationIDs() map[string]string {
	out := make(map[string]string)
	s.get(storageKeyCorrelationIDs, &out)
	return out
}

// AddCorrelationID records an in-flight correlation id.
func (s *SessionState) AddCorrelationID(id, method string) {
	ids := s.CorrelationIDs()
	ids[id] = method
	s.set(storageKeyCorrelationIDs, ids)
}

// RemoveCorrelationID invalidates a correlation id after its request settles.
func (s *SessionState) RemoveCorrelationID(id string) {
	ids := s.CorrelationIDs()
	delete(ids, id)
	s.set(storageKeyCorrelationIDs, ids)
}

// ClearCorrelationIDs drops all tracked correlation ids.
func (s *SessionState) ClearCorrelationIDs() {
	s.set(storageKeyCorrelationIDs, map[string]string{})
}

// Clear wipes every slice. Called on disconnect.
func (s *SessionState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range []string{
		storageKeyConfig,
		storageKeyAccount,
		storageKeySubAccounts,
		storageKeySubAccountsConfig,
		storageKeySpendPermissions,
		storageKeyCorrelationIDs,
	} {
		s.storage.Delete(key)
	}
}

// MemoryStorage is an in-memory Storage, used by tests and as the default
// backend when no persistent store is supplied.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStorage) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *MemoryStorage) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}
