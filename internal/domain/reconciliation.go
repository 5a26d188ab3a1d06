package domain

// ReconciliationSource tells which store a ledger read was served from. It is
// recomputed on every read and never persisted.
type ReconciliationSource string

const (
	SourceRemoteTrusted ReconciliationSource = "REMOTE_TRUSTED"
	SourceLocalFallback ReconciliationSource = "LOCAL_FALLBACK"
)

func (s ReconciliationSource) Label() string {
	switch s {
	case SourceRemoteTrusted:
		return "remote"
	case SourceLocalFallback:
		return "local cache"
	default:
		return string(s)
	}
}
