package walletsdk

import "testing"

func TestSessionStateAccountRoundTrip(t *testing.T) {
	state := NewSessionState(NewMemoryStorage())

	if state.Account() != nil {
		t.Fatal("expected no account before set")
	}

	state.SetAccount(&AccountInfo{Accounts: []string{"0xabc"}, ChainID: 8453})
	account := state.Account()
	if account == nil {
		t.Fatal("expected account after set")
	}
	if len(account.Accounts) != 1 || account.Accounts[0] != "0xabc" || account.ChainID != 8453 {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestSessionStateSubAccountKeyNormalization(t *testing.T) {
	state := NewSessionState(NewMemoryStorage())

	state.SetSubAccount("0xABCDEF", SubAccount{Address: "0x111"})

	sub, ok := state.SubAccount("0xabcdef")
	if !ok {
		t.Fatal("lookup must be case-insensitive on the global account key")
	}
	if sub.Address != "0x111" {
		t.Fatalf("unexpected sub-account: %+v", sub)
	}
}

func TestAddSpendPermissionsDeduplicatesByHash(t *testing.T) {
	state := NewSessionState(NewMemoryStorage())

	state.AddSpendPermissions([]SpendPermission{
		{PermissionHash: "0xaaa", Signature: "0x1"},
		{PermissionHash: "0xbbb", Signature: "0x2"},
	})
	state.AddSpendPermissions([]SpendPermission{
		{PermissionHash: "0xaaa", Signature: "0x1"},
		{PermissionHash: "0xccc", Signature: "0x3"},
	})

	perms := state.SpendPermissions()
	if len(perms) != 3 {
		t.Fatalf("expected 3 permissions after dedupe, got %d", len(perms))
	}
}

func TestCorrelationIDLifecycle(t *testing.T) {
	state := NewSessionState(NewMemoryStorage())

	state.AddCorrelationID("id-1", "eth_requestAccounts")
	state.AddCorrelationID("id-2", "wallet_sendCalls")
	if len(state.CorrelationIDs()) != 2 {
		t.Fatalf("expected 2 correlation ids, got %d", len(state.CorrelationIDs()))
	}

	state.RemoveCorrelationID("id-1")
	ids := state.CorrelationIDs()
	if len(ids) != 1 {
		t.Fatalf("expected 1 correlation id, got %d", len(ids))
	}
	if ids["id-2"] != "wallet_sendCalls" {
		t.Fatalf("unexpected surviving id set: %v", ids)
	}

	state.ClearCorrelationIDs()
	if len(state.CorrelationIDs()) != 0 {
		t.Fatal("expected no correlation ids after clear")
	}
}

func TestClearWipesEverySlice(t *testing.T) {
	state := NewSessionState(NewMemoryStorage())
	state.SetAccount(&AccountInfo{Accounts: []string{"0xabc"}, ChainID: 1})
	state.SetSubAccount("0xabc", SubAccount{Address: "0x111"})
	state.AddSpendPermissions([]SpendPermission{{PermissionHash: "0xaaa"}})
	state.AddCorrelationID("id-1", "personal_sign")

	state.Clear()

	if state.Account() != nil {
		t.Error("account survived Clear")
	}
	if len(state.SubAccounts()) != 0 {
		t.Error("sub-accounts survived Clear")
	}
	if len(state.SpendPermissions()) != 0 {
		t.Error("spend permissions survived Clear")
	}
	if len(state.CorrelationIDs()) != 0 {
		t.Error("correlation ids survived Clear")
	}
}
