package reconcile

// Policy decides whether a request triggers a remote fetch before serving local state
type Policy int

const (
	// SyncIfEmptyOrRequested fetches only when asked to or when nothing is stored yet
	SyncIfEmptyOrRequested Policy = iota
	// AlwaysSync fetches on every request
	AlwaysSync
)

func (p Policy) String() string {
	switch p {
	case SyncIfEmptyOrRequested:
		return "sync-if-empty-or-requested"
	case AlwaysSync:
		return "always-sync"
	default:
		return "unknown"
	}
}

// ShouldSync resolves the policy. isEmpty is consulted only when the answer depends on it.
func (p Policy) ShouldSync(requested bool, isEmpty func() (bool, error)) (bool, error) {
	switch p {
	case AlwaysSync:
		return true, nil
	default:
		if requested {
			return true, nil
		}
		return isEmpty()
	}
}
