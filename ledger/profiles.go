package ledger

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ferreirogomes/artshare/models"
)

// ProfileRegistry guarda um perfil por participante.
type ProfileRegistry struct {
	s *Store
}

// Create cadastra o perfil do chamador. Uma segunda tentativa falha com
// ErrAlreadyExists e não altera o perfil existente.
func (r *ProfileRegistry) Create(id models.Principal, displayName, contact string) (models.Profile, error) {
	if id.IsAnonymous() {
		return models.Profile{}, errors.Wrap(ErrUnauthenticated, "criação de perfil")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.profiles[id]; exists {
		return models.Profile{}, errors.Wrapf(ErrAlreadyExists, "perfil %s", id)
	}
	p := models.Profile{
		ID:            id,
		DisplayName:   displayName,
		Contact:       contact,
		TotalInvested: decimal.Zero,
		CreatedAt:     r.s.clock.Now(),
	}
	r.s.profiles[id] = p
	return p, nil
}

// Get busca o perfil de um participante.
func (r *ProfileRegistry) Get(id models.Principal) (models.Profile, bool) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[id]
	return p, ok
}

// MarkVerified marca o participante como verificado.
func (r *ProfileRegistry) MarkVerified(id models.Principal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "perfil %s", id)
	}
	p.Verified = true
	r.s.profiles[id] = p
	return nil
}
