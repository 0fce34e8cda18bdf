package entities

// EntitlementState is the best-known subscription state plus the free-tier
// usage counter. Mutated only by the entitlement service and persisted after
// every mutation.
type EntitlementState struct {
	HasActiveEntitlement bool            `json:"hasActiveEntitlement"`
	FreeActionsUsed      int             `json:"freeActionsUsed"`
	KnownTransactionIDs  map[string]bool `json:"knownTransactionIds"`
}

// NewEntitlementState returns the first-run zero state
func NewEntitlementState() EntitlementState {
	return EntitlementState{
		KnownTransactionIDs: map[string]bool{},
	}
}

// KnowsTransaction reports whether a transaction ID was already processed
func (s EntitlementState) KnowsTransaction(id string) bool {
	return s.KnownTransactionIDs[id]
}

// Clone returns a deep copy so callers can read state without aliasing the
// owner's map
func (s EntitlementState) Clone() EntitlementState {
	out := s
	out.KnownTransactionIDs = make(map[string]bool, len(s.KnownTransactionIDs))
	for id := range s.KnownTransactionIDs {
		out.KnownTransactionIDs[id] = true
	}
	return out
}
