// Package auth resolve a identidade do chamador a partir de requisições
// assinadas com chaves ed25519 (formato Solana) e decide quem é autoridade.
package auth

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ferreirogomes/artshare/models"
)

const (
	HeaderPubkey    = "X-Caller-Pubkey"
	HeaderTimestamp = "X-Caller-Timestamp"
	HeaderNonce     = "X-Caller-Nonce"
	HeaderSignature = "X-Caller-Signature"

	// Corpo máximo aceito numa requisição assinada.
	maxSignedBody = 1 << 20
)

var (
	ErrMalformedCredentials = errors.New("credenciais do chamador malformadas")
	ErrBadSignature         = errors.New("assinatura do chamador inválida")
	ErrStaleRequest         = errors.New("carimbo de tempo fora da janela aceita")
	ErrReplayedRequest      = errors.New("requisição assinada já utilizada")
)

// Verifier confere a assinatura de uma requisição e devolve o principal.
// Cada nonce é aceito uma única vez por chave enquanto o carimbo estiver
// dentro da janela.
type Verifier struct {
	maxSkew time.Duration
	now     func() time.Time

	mu        sync.Mutex
	seen      map[string]time.Time // chave+nonce → fim da validade
	nextPrune time.Time
}

// NewVerifier cria um verificador que aceita carimbos até maxSkew de distância do relógio local.
func NewVerifier(maxSkew time.Duration) *Verifier {
	return &Verifier{maxSkew: maxSkew, now: time.Now, seen: make(map[string]time.Time)}
}

// SigningMessage é o conteúdo assinado pelo cliente:
// "<MÉTODO> <ALVO> <UNIX> <NONCE> <SHA256 DO CORPO>", onde o alvo é o
// caminho seguido da query, quando houver.
func SigningMessage(method, target string, unix int64, nonce string, body []byte) []byte {
	sum := sha256.Sum256(body)
	return []byte(fmt.Sprintf("%s %s %d %s %s", method, target, unix, nonce, hex.EncodeToString(sum[:])))
}

func requestTarget(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + r.URL.RawQuery
}

// readBody lê o corpo inteiro e o devolve à requisição para os handlers.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSignedBody+1))
	r.Body.Close()
	if err != nil {
		return nil, errors.Wrap(err, "falha ao ler corpo")
	}
	if len(body) > maxSignedBody {
		return nil, errors.Wrapf(ErrMalformedCredentials, "corpo acima de %d bytes", maxSignedBody)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

// Authenticate devolve models.Anonymous quando a requisição não traz chave
// pública, e erro quando traz credenciais que não se sustentam.
func (v *Verifier) Authenticate(r *http.Request) (models.Principal, error) {
	rawKey := r.Header.Get(HeaderPubkey)
	if rawKey == "" {
		return models.Anonymous, nil
	}

	pubkey, err := solana.PublicKeyFromBase58(rawKey)
	if err != nil {
		return models.Anonymous, errors.Wrap(ErrMalformedCredentials, err.Error())
	}
	unix, err := strconv.ParseInt(r.Header.Get(HeaderTimestamp), 10, 64)
	if err != nil {
		return models.Anonymous, errors.Wrap(ErrMalformedCredentials, "carimbo de tempo")
	}
	nonce := r.Header.Get(HeaderNonce)
	if nonce == "" {
		return models.Anonymous, errors.Wrap(ErrMalformedCredentials, "nonce")
	}
	sig, err := solana.SignatureFromBase58(r.Header.Get(HeaderSignature))
	if err != nil {
		return models.Anonymous, errors.Wrap(ErrMalformedCredentials, "assinatura")
	}

	now := v.now()
	signedAt := time.Unix(unix, 0)
	skew := now.Sub(signedAt)
	if skew < 0 {
		skew = -skew
	}
	if skew > v.maxSkew {
		return models.Anonymous, errors.Wrapf(ErrStaleRequest, "diferença de %s", skew)
	}

	body, err := readBody(r)
	if err != nil {
		return models.Anonymous, err
	}
	if !sig.Verify(pubkey, SigningMessage(r.Method, requestTarget(r), unix, nonce, body)) {
		return models.Anonymous, ErrBadSignature
	}

	if !v.remember(pubkey.String()+"/"+nonce, signedAt.Add(v.maxSkew), now) {
		return models.Anonymous, errors.Wrapf(ErrReplayedRequest, "nonce %s", nonce)
	}
	return models.Principal(pubkey.String()), nil
}

// remember registra o nonce; devolve false se ele ainda estava válido.
func (v *Verifier) remember(key string, expires, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if now.After(v.nextPrune) {
		for k, exp := range v.seen {
			if now.After(exp) {
				delete(v.seen, k)
			}
		}
		v.nextPrune = now.Add(time.Second)
	}

	if exp, ok := v.seen[key]; ok && !now.After(exp) {
		return false
	}
	v.seen[key] = expires
	return true
}

// SignRequest preenche os cabeçalhos de identidade de uma requisição com um
// nonce novo.
func SignRequest(r *http.Request, key solana.PrivateKey, at time.Time) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	unix := at.Unix()
	nonce := uuid.New().String()
	sig, err := key.Sign(SigningMessage(r.Method, requestTarget(r), unix, nonce, body))
	if err != nil {
		return errors.Wrap(err, "falha ao assinar requisição")
	}
	r.Header.Set(HeaderPubkey, key.PublicKey().String())
	r.Header.Set(HeaderTimestamp, strconv.FormatInt(unix, 10))
	r.Header.Set(HeaderNonce, nonce)
	r.Header.Set(HeaderSignature, sig.String())
	return nil
}

type callerKey struct{}

// WithCaller anexa o principal autenticado ao contexto.
func WithCaller(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, callerKey{}, p)
}

// CallerFrom lê o principal do contexto; sem valor, o chamador é anônimo.
func CallerFrom(ctx context.Context) models.Principal {
	p, _ := ctx.Value(callerKey{}).(models.Principal)
	return p
}
