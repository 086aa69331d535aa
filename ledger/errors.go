package ledger

import "github.com/pkg/errors"

// Erros esperados do livro-razão. Todos são recuperáveis pelo chamador e
// devem ser comparados com errors.Is, pois chegam embrulhados com contexto.
var (
	ErrUnauthenticated     = errors.New("chamador anônimo")
	ErrNotFound            = errors.New("registro não encontrado")
	ErrAlreadyExists       = errors.New("registro já existe")
	ErrInsufficientBalance = errors.New("saldo de tokens insuficiente")
	ErrSupplyExceeded      = errors.New("oferta total de tokens excedida")
	ErrAlreadyClosed       = errors.New("oferta não está aberta")
	ErrNotOwner            = errors.New("chamador não é o vendedor da oferta")
	ErrSelfTrade           = errors.New("comprador e vendedor são o mesmo participante")
	ErrInvalidAmount       = errors.New("quantidade de tokens deve ser positiva")
)
