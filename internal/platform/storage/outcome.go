package storage

// Outcome classifies why a write did or did not take effect. Stores use it
// internally where the public interface only reports a bool; the extra
// precision feeds logging without widening the caller-facing contract.
type Outcome int

const (
	// Applied means the write changed exactly the intended rows.
	Applied Outcome = iota

	// NotFound means the target entity does not exist.
	NotFound

	// Denied means the target exists but the caller does not own it.
	Denied

	// Transient means the backend failed and a retry might succeed.
	Transient
)

// Ok reports whether the write took effect.
func (o Outcome) Ok() bool { return o == Applied }

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case NotFound:
		return "not_found"
	case Denied:
		return "denied"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}
