package auth

import (
	"strings"

	"github.com/ferreirogomes/artshare/models"
)

// Allowlist é o conjunto fixo de principais autorizados a operações administrativas.
type Allowlist map[models.Principal]struct{}

// ParseAllowlist lê uma lista separada por vírgulas, ignorando entradas vazias.
func ParseAllowlist(raw string) Allowlist {
	list := Allowlist{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			list[models.Principal(p)] = struct{}{}
		}
	}
	return list
}

func (a Allowlist) IsAuthority(p models.Principal) bool {
	if p.IsAnonymous() {
		return false
	}
	_, ok := a[p]
	return ok
}
