package nn

// IsLoss reports whether m is a loss function.
func IsLoss(m Module) bool {
	_, ok := m.(Loss)
	return ok
}

// IsMSE reports whether m is an MSELoss.
func IsMSE(m Module) bool {
	_, ok := m.(*MSELoss)
	return ok
}

// IsBCE reports whether m is a BCEWithLogitsLoss.
func IsBCE(m Module) bool {
	_, ok := m.(*BCEWithLogitsLoss)
	return ok
}

// IsCE reports whether m is a CrossEntropyLoss.
func IsCE(m Module) bool {
	_, ok := m.(*CrossEntropyLoss)
	return ok
}

// IsNoOp reports whether m is a structural node that performs no computation
// of its own (containers, fan-out and tuple selection).
func IsNoOp(m Module) bool {
	switch m.(type) {
	case *Sequential, *Branch, *Parallel, *ReduceTuple:
		return true
	default:
		return false
	}
}
