package models

// Principal identifica um participante já autenticado pela borda do sistema.
// O valor zero é o chamador anônimo.
type Principal string

// Anonymous é o chamador sem identidade verificada.
const Anonymous Principal = ""

// IsAnonymous informa se o principal é o sentinela anônimo.
func (p Principal) IsAnonymous() bool {
	return p == Anonymous
}

func (p Principal) String() string {
	if p.IsAnonymous() {
		return "anonymous"
	}
	return string(p)
}
